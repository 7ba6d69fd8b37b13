package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cesargomez89/songbook/internal/domain"
)

const songColumns = `id, category_id, name, name2, search_index, fonts, key_name, youtube, lyrics, meta`

func (db *DB) UpsertSong(ctx context.Context, song *domain.Song) error {
	query := `INSERT INTO songs (` + songColumns + `)
		VALUES (:id, :category_id, :name, :name2, :search_index, :fonts, :key_name, :youtube, :lyrics, :meta)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			name = excluded.name,
			name2 = excluded.name2,
			search_index = excluded.search_index,
			fonts = excluded.fonts,
			key_name = excluded.key_name,
			youtube = excluded.youtube,
			lyrics = excluded.lyrics,
			meta = excluded.meta`

	_, err := db.NamedExecContext(ctx, query, song)
	return err
}

// DeleteSongsByCategory removes every song of a category through the category_id index.
func (db *DB) DeleteSongsByCategory(ctx context.Context, categoryID string) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM songs WHERE category_id = ?`, categoryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (db *DB) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	var song domain.Song
	err := db.GetContext(ctx, &song, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (db *DB) ListSongs(ctx context.Context) ([]domain.Song, error) {
	return selectSongs(ctx, db, `SELECT `+songColumns+` FROM songs ORDER BY name`)
}

func (db *DB) ListSongsByCategory(ctx context.Context, categoryID string) ([]domain.Song, error) {
	return selectSongs(ctx, db, `SELECT `+songColumns+` FROM songs WHERE category_id = ? ORDER BY name`, categoryID)
}

// SearchSongs scans search_index for a substring. q must already be normalized.
func (db *DB) SearchSongs(ctx context.Context, q string) ([]domain.Song, error) {
	return selectSongs(ctx, db, `SELECT `+songColumns+` FROM songs WHERE instr(search_index, ?) > 0 ORDER BY name`, q)
}

func (db *DB) SearchSongsInCategory(ctx context.Context, categoryID, q string) ([]domain.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs
		WHERE category_id = ? AND instr(search_index, ?) > 0
		ORDER BY name`
	return selectSongs(ctx, db, query, categoryID, q)
}

func (db *DB) CountSongsByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM songs WHERE category_id = ?`, categoryID)
	return count, err
}

func selectSongs(ctx context.Context, db *DB, query string, args ...interface{}) ([]domain.Song, error) {
	songs := []domain.Song{}
	err := db.SelectContext(ctx, &songs, query, args...)
	return songs, err
}
