package httpapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/songbook/internal/app"
	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/http/dto"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/reconcile"
	"github.com/cesargomez89/songbook/internal/songxml"
	"github.com/cesargomez89/songbook/internal/store"
)

type fakeGateway struct {
	entries  []domain.ManifestEntry
	payloads map[string][]byte
	err      error
	cleared  int
}

func (f *fakeGateway) ClearCache(ctx context.Context) error {
	f.cleared++
	return nil
}

func (f *fakeGateway) FetchIndex(ctx context.Context) ([]domain.ManifestEntry, error) {
	return f.entries, f.err
}

func (f *fakeGateway) FetchCategoryPayload(ctx context.Context, file string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payloads[file], nil
}

type onlineChecker struct{}

func (onlineChecker) Probe(ctx context.Context, timeout time.Duration) bool { return true }

const hymnsXML = `<songs>
<song><category>hymns</category><name>Amazing Grace</name><slide>Amazing grace<BR>how sweet</slide></song>
<song><category>hymns</category><name>Holy</name><slide>Holy holy</slide></song>
<song><category>hymns</category><name>Be Thou My Vision</name><slide>Be thou</slide></song>
</songs>`

func newTestServer(t *testing.T, gw *fakeGateway) *httptest.Server {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.Nop()
	importer := app.NewImportService(db, songxml.New(), gw, log)
	rec := reconcile.NewReconciler(importer, gw, onlineChecker{}, store.NewSettingsRepo(db), log)
	t.Cleanup(rec.Stop)

	h := NewHandler(importer, app.NewQueryService(db, log), app.NewSetlistService(db, log), rec, log)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestImportAndQuery(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{})

	resp := do(t, http.MethodPost, srv.URL+"/api/import", "application/xml", hymnsXML)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result app.ImportResult
	decode(t, resp, &result)
	assert.Equal(t, "hymns", result.CategoryID)
	assert.Equal(t, 3, result.SongCount)

	resp = do(t, http.MethodGet, srv.URL+"/api/categories", "", "")
	var cats []domain.Category
	decode(t, resp, &cats)
	require.Len(t, cats, 1)
	assert.Equal(t, 3, cats[0].SongCount)

	resp = do(t, http.MethodGet, srv.URL+"/api/songs?category=hymns&page=2&page_size=2", "", "")
	var page dto.SongListResponse
	decode(t, resp, &page)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	require.Len(t, page.Songs, 1)
	assert.Equal(t, "Holy", page.Songs[0].Name)

	resp = do(t, http.MethodGet, srv.URL+"/api/search?q=AMAZING", "", "")
	var found dto.SongListResponse
	decode(t, resp, &found)
	require.Len(t, found.Songs, 1)
	assert.Equal(t, "hymns_0001", found.Songs[0].ID)

	resp = do(t, http.MethodGet, srv.URL+"/api/search?q=zzz&category=hymns", "", "")
	var none dto.SongListResponse
	decode(t, resp, &none)
	assert.NotNil(t, none.Songs)
	assert.Empty(t, none.Songs)

	resp = do(t, http.MethodGet, srv.URL+"/api/songs/hymns_0001", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var song dto.SongResponse
	decode(t, resp, &song)
	assert.Equal(t, "Amazing grace\nhow sweet", song.Text)
	assert.False(t, song.InSetlist)

	do(t, http.MethodPost, srv.URL+"/api/setlist", "application/json", `{"song_id":"hymns_0001"}`)
	resp = do(t, http.MethodGet, srv.URL+"/api/songs/hymns_0001", "", "")
	decode(t, resp, &song)
	assert.True(t, song.InSetlist)

	resp = do(t, http.MethodGet, srv.URL+"/api/categories/hymns", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cat domain.Category
	decode(t, resp, &cat)
	assert.Equal(t, 3, cat.SongCount)

	resp = do(t, http.MethodGet, srv.URL+"/api/categories/missing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/songs/hymns_0042", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	gw := &fakeGateway{entries: []domain.ManifestEntry{{ID: "hymns", File: "hymns.xml"}}}
	srv := newTestServer(t, gw)

	resp := do(t, http.MethodPost, srv.URL+"/api/import", "application/xml", "<songs><song>")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	mixed := `<songs><song><category>a</category></song><song><category>b</category></song></songs>`
	resp = do(t, http.MethodPost, srv.URL+"/api/import", "application/xml", mixed)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/categories/missing/update", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	gw.err = fmt.Errorf("%w: boom", domain.ErrRemoteUnavailable)
	resp = do(t, http.MethodGet, srv.URL+"/api/remote/categories", "", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var body errorResponse
	decode(t, resp, &body)
	assert.Contains(t, body.Error, "boom")
}

func TestSetlistEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeGateway{})

	resp := do(t, http.MethodPost, srv.URL+"/api/setlist", "application/json", `{"song_id":"hymns_0001"}`)
	var added dto.AddSetlistResponse
	decode(t, resp, &added)
	assert.True(t, added.Added)

	resp = do(t, http.MethodPost, srv.URL+"/api/setlist", "application/json", `{"song_id":"hymns_0001"}`)
	decode(t, resp, &added)
	assert.False(t, added.Added)

	resp = do(t, http.MethodPost, srv.URL+"/api/setlist", "application/json", `{"song_id":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var verr errorResponse
	decode(t, resp, &verr)
	assert.Equal(t, "is required", verr.Fields["song_id"])

	resp = do(t, http.MethodPost, srv.URL+"/api/setlist", "application/json", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/setlist/import", "application/json", `{"song_ids":["hymns_0002","hymns_0001"]}`)
	var imported dto.ImportSetlistResponse
	decode(t, resp, &imported)
	assert.Equal(t, 1, imported.Added)

	resp = do(t, http.MethodGet, srv.URL+"/api/setlist/export", "", "")
	var exported dto.ExportSetlistResponse
	decode(t, resp, &exported)
	assert.Equal(t, []string{"hymns_0001", "hymns_0002"}, exported.SongIDs)

	resp = do(t, http.MethodGet, srv.URL+"/api/setlist", "", "")
	var entries []domain.SetlistEntry
	decode(t, resp, &entries)
	require.Len(t, entries, 2)

	resp = do(t, http.MethodDelete, srv.URL+"/api/setlist/"+entries[0].ID, "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/setlist", "", "")
	decode(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Order)

	resp = do(t, http.MethodDelete, srv.URL+"/api/setlist", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/setlist", "", "")
	decode(t, resp, &entries)
	assert.Empty(t, entries)
}

func TestSyncEndpoints(t *testing.T) {
	gw := &fakeGateway{
		entries:  []domain.ManifestEntry{{ID: "hymns", File: "hymns.xml"}},
		payloads: map[string][]byte{"hymns.xml": []byte(hymnsXML)},
	}
	srv := newTestServer(t, gw)

	resp := do(t, http.MethodGet, srv.URL+"/api/sync", "", "")
	var status dto.SyncStatusResponse
	decode(t, resp, &status)
	assert.Nil(t, status.LastReconciled)

	resp = do(t, http.MethodPost, srv.URL+"/api/sync", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary reconcile.Summary
	decode(t, resp, &summary)
	assert.Equal(t, []string{"hymns"}, summary.Imported)

	resp = do(t, http.MethodGet, srv.URL+"/api/sync", "", "")
	decode(t, resp, &status)
	assert.NotNil(t, status.LastReconciled)

	resp = do(t, http.MethodGet, srv.URL+"/api/remote/categories", "", "")
	var catalog []domain.RemoteCategory
	decode(t, resp, &catalog)
	require.Len(t, catalog, 1)
	assert.True(t, catalog[0].Installed)
	assert.Zero(t, gw.cleared)

	resp = do(t, http.MethodGet, srv.URL+"/api/remote/categories?refresh=1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, gw.cleared)
}
