package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/songxml"
	"github.com/cesargomez89/songbook/internal/store"
)

func setupTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test_app.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// buildPayload renders a category document with one song per name.
func buildPayload(category string, names ...string) []byte {
	var b strings.Builder
	b.WriteString("<songs>\n")
	for _, name := range names {
		fmt.Fprintf(&b, "<song><category>%s</category><name>%s</name><slide>%s lyrics</slide></song>\n", category, name, name)
	}
	b.WriteString("</songs>")
	return []byte(b.String())
}

func numberedNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Song %02d", i+1)
	}
	return names
}

type fakeGateway struct {
	entries  []domain.ManifestEntry
	payloads map[string][]byte
	indexErr error
	fileErrs map[string]error
}

func (f *fakeGateway) FetchIndex(ctx context.Context) ([]domain.ManifestEntry, error) {
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	return f.entries, nil
}

func (f *fakeGateway) FetchCategoryPayload(ctx context.Context, file string) ([]byte, error) {
	if err := f.fileErrs[file]; err != nil {
		return nil, err
	}
	payload, ok := f.payloads[file]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteUnavailable, file)
	}
	return payload, nil
}

func newImporter(db *store.DB, gw *fakeGateway) *ImportService {
	if gw == nil {
		gw = &fakeGateway{}
	}
	return NewImportService(db, songxml.New(), gw, logger.Nop())
}
