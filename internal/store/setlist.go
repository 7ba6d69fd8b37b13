package store

import (
	"context"
	"time"

	"github.com/cesargomez89/songbook/internal/domain"
)

// AddSetlistEntry appends entry unless its song is already in the setlist.
// The position lookup and the insert share one write transaction, and the
// unique song_id constraint absorbs the duplicate case. On insert,
// entry.Order and entry.AddedAt are filled in.
func (db *DB) AddSetlistEntry(ctx context.Context, entry *domain.SetlistEntry) (bool, error) {
	var inserted bool
	err := db.RunInTx(ctx, func(tx *DB) error {
		var next int
		if err := tx.GetContext(ctx, &next, `SELECT COALESCE(MAX(position), 0) + 1 FROM setlist`); err != nil {
			return err
		}

		if entry.AddedAt.IsZero() {
			entry.AddedAt = time.Now()
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO setlist (id, song_id, position, added_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(song_id) DO NOTHING
		`, entry.ID, entry.SongID, next, entry.AddedAt)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		inserted = rows == 1
		if inserted {
			entry.Order = next
		}
		return nil
	})
	return inserted, err
}

func (db *DB) ListSetlist(ctx context.Context) ([]domain.SetlistEntry, error) {
	entries := []domain.SetlistEntry{}
	err := db.SelectContext(ctx, &entries, `SELECT id, song_id, position, added_at FROM setlist ORDER BY position ASC`)
	return entries, err
}

func (db *DB) IsSongInSetlist(ctx context.Context, songID string) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM setlist WHERE song_id = ?`, songID)
	return count > 0, err
}

// DeleteSetlistEntry removes one entry. Remaining positions are left as they are.
func (db *DB) DeleteSetlistEntry(ctx context.Context, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM setlist WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (db *DB) ClearSetlist(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM setlist`)
	return err
}
