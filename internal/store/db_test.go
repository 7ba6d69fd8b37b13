package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/domain"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	})
	return db
}

func seedCategory(t *testing.T, db *DB, id string, names ...string) {
	t.Helper()
	ctx := context.Background()
	if err := db.UpsertCategory(ctx, &domain.Category{ID: id, Name: id, SongCount: len(names), LastUpdated: time.Now()}); err != nil {
		t.Fatalf("UpsertCategory failed: %v", err)
	}
	for i, name := range names {
		song := domain.RawSong{Name: name}.ToSong(id, i+1)
		if err := db.UpsertSong(ctx, &song); err != nil {
			t.Fatalf("UpsertSong failed: %v", err)
		}
	}
}

func TestOpener_ConcurrentOpenSharesHandle(t *testing.T) {
	opener := NewOpener(filepath.Join(t.TempDir(), "shared.db"))

	const callers = 8
	handles := make([]*DB, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := opener.Open()
			if err != nil {
				t.Errorf("Open failed: %v", err)
				return
			}
			handles[i] = db
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if handles[i] != handles[0] {
			t.Fatalf("caller %d got a different handle", i)
		}
	}
	_ = handles[0].Close()
}

func TestOpener_Unavailable(t *testing.T) {
	// A directory cannot be opened as a database file.
	opener := NewOpener(t.TempDir())

	_, err := opener.Open()
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("Expected ErrStorageUnavailable, got %v", err)
	}

	_, again := opener.Open()
	if again != err {
		t.Error("Expected the same error on a second Open")
	}
}

func TestSchemaCreatesTables(t *testing.T) {
	db := setupTestDB(t)

	var names []string
	if err := db.SelectContext(context.Background(), &names, `SELECT name FROM sqlite_master WHERE type = 'table'`); err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}

	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, table := range []string{constants.CategoriesTable, constants.SongsTable, constants.SetlistTable, constants.SettingsTable, constants.CacheTable} {
		if !have[table] {
			t.Errorf("Expected table %q, got %v", table, names)
		}
	}
}

func TestDB_Categories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	missing, err := db.GetCategory(ctx, "hymns")
	if err != nil || missing != nil {
		t.Fatalf("Expected nil, nil for missing category, got %v, %v", missing, err)
	}

	seedCategory(t, db, "hymns", "B", "A")

	cat, err := db.GetCategory(ctx, "hymns")
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if cat.SongCount != 2 {
		t.Errorf("Expected song count 2, got %d", cat.SongCount)
	}
	if cat.LastUpdated.IsZero() {
		t.Error("Expected LastUpdated to be set")
	}

	cat.SongCount = 5
	if err := db.UpsertCategory(ctx, cat); err != nil {
		t.Fatalf("UpsertCategory failed: %v", err)
	}
	list, err := db.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(list) != 1 || list[0].SongCount != 5 {
		t.Errorf("Expected one category with count 5, got %+v", list)
	}
}

func TestDB_Songs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedCategory(t, db, "hymns", "Holy Holy Holy", "  Amazing   Grace")
	seedCategory(t, db, "tamil", "Amazing Love")

	song, err := db.GetSong(ctx, "hymns_0002")
	if err != nil {
		t.Fatalf("GetSong failed: %v", err)
	}
	if song == nil || song.SearchIndex != "amazing grace" {
		t.Fatalf("Unexpected song %+v", song)
	}

	all, _ := db.ListSongs(ctx)
	if len(all) != 3 {
		t.Errorf("Expected 3 songs, got %d", len(all))
	}

	byCat, _ := db.ListSongsByCategory(ctx, "hymns")
	if len(byCat) != 2 {
		t.Errorf("Expected 2 hymns, got %d", len(byCat))
	}

	found, _ := db.SearchSongs(ctx, "amazing")
	if len(found) != 2 {
		t.Errorf("Expected 2 matches, got %d", len(found))
	}

	found, _ = db.SearchSongsInCategory(ctx, "tamil", "amazing")
	if len(found) != 1 || found[0].ID != "tamil_0001" {
		t.Errorf("Expected tamil_0001, got %+v", found)
	}

	none, err := db.SearchSongs(ctx, "nothing like this")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("Expected empty non-nil result, got %v, %v", none, err)
	}

	deleted, err := db.DeleteSongsByCategory(ctx, "hymns")
	if err != nil {
		t.Fatalf("DeleteSongsByCategory failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}
	count, _ := db.CountSongsByCategory(ctx, "hymns")
	if count != 0 {
		t.Errorf("Expected 0 remaining, got %d", count)
	}
}

func TestDB_SongRequiresCategory(t *testing.T) {
	db := setupTestDB(t)
	song := domain.RawSong{Name: "Orphan"}.ToSong("nowhere", 1)

	if err := db.UpsertSong(context.Background(), &song); err == nil {
		t.Error("Expected foreign key violation for a song without category")
	}
}

func TestDB_RunInTxRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedCategory(t, db, "hymns", "A")

	boom := errors.New("boom")
	err := db.RunInTx(ctx, func(tx *DB) error {
		if _, err := tx.DeleteSongsByCategory(ctx, "hymns"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	count, _ := db.CountSongsByCategory(ctx, "hymns")
	if count != 1 {
		t.Errorf("Expected rollback to keep 1 song, got %d", count)
	}
}

func TestDB_Setlist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := &domain.SetlistEntry{ID: "e1", SongID: "hymns_0001"}
	ok, err := db.AddSetlistEntry(ctx, first)
	if err != nil || !ok {
		t.Fatalf("Expected insert, got %v, %v", ok, err)
	}
	if first.Order != 1 {
		t.Errorf("Expected order 1, got %d", first.Order)
	}

	dup := &domain.SetlistEntry{ID: "e2", SongID: "hymns_0001"}
	ok, err = db.AddSetlistEntry(ctx, dup)
	if err != nil || ok {
		t.Fatalf("Expected duplicate to be ignored, got %v, %v", ok, err)
	}

	second := &domain.SetlistEntry{ID: "e3", SongID: "hymns_0002"}
	if _, err := db.AddSetlistEntry(ctx, second); err != nil {
		t.Fatalf("AddSetlistEntry failed: %v", err)
	}

	removed, err := db.DeleteSetlistEntry(ctx, "e1")
	if err != nil || !removed {
		t.Fatalf("Expected removal, got %v, %v", removed, err)
	}

	third := &domain.SetlistEntry{ID: "e4", SongID: "hymns_0003"}
	if _, err := db.AddSetlistEntry(ctx, third); err != nil {
		t.Fatalf("AddSetlistEntry failed: %v", err)
	}
	if third.Order != 3 {
		t.Errorf("Expected order 3 after a gap, got %d", third.Order)
	}

	list, _ := db.ListSetlist(ctx)
	if len(list) != 2 || list[0].ID != "e3" || list[1].ID != "e4" {
		t.Errorf("Unexpected setlist %+v", list)
	}

	in, _ := db.IsSongInSetlist(ctx, "hymns_0002")
	if !in {
		t.Error("Expected hymns_0002 to be in the setlist")
	}

	if err := db.ClearSetlist(ctx); err != nil {
		t.Fatalf("ClearSetlist failed: %v", err)
	}
	list, _ = db.ListSetlist(ctx)
	if len(list) != 0 {
		t.Errorf("Expected empty setlist, got %d", len(list))
	}
}

func TestSettingsRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	v, err := repo.Get(ctx, SettingLastReconcile)
	if err != nil || v != "" {
		t.Fatalf("Expected empty value, got %q, %v", v, err)
	}

	if err := repo.Set(ctx, SettingLastReconcile, "2026-01-01T00:00:00Z"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(ctx, SettingLastReconcile, "2026-01-02T00:00:00Z"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _ = repo.Get(ctx, SettingLastReconcile)
	if v != "2026-01-02T00:00:00Z" {
		t.Errorf("Expected overwritten value, got %q", v)
	}

	if err := repo.Delete(ctx, SettingLastReconcile); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	v, _ = repo.Get(ctx, SettingLastReconcile)
	if v != "" {
		t.Errorf("Expected deleted value, got %q", v)
	}
}

func TestDB_Cache(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	data, err := db.GetCache(ctx, "missing")
	if err != nil || data != nil {
		t.Fatalf("Expected nil, nil for missing key, got %v, %v", data, err)
	}

	if err := db.SetCache(ctx, "index", []byte(`[1]`), time.Hour); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}
	data, _ = db.GetCache(ctx, "index")
	if string(data) != `[1]` {
		t.Errorf("Expected cached value, got %q", data)
	}

	if err := db.SetCache(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if data, _ := db.GetCache(ctx, "stale"); data != nil {
		t.Errorf("Expected expired entry to be gone, got %q", data)
	}

	if err := db.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if data, _ := db.GetCache(ctx, "index"); data != nil {
		t.Errorf("Expected cleared cache, got %q", data)
	}
}
