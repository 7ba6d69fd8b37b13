package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cesargomez89/songbook/internal/domain"
)

// UpsertCategory writes the whole summary row, replacing any previous one.
func (db *DB) UpsertCategory(ctx context.Context, cat *domain.Category) error {
	query := `INSERT INTO categories (id, name, song_count, last_updated)
		VALUES (:id, :name, :song_count, :last_updated)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			song_count = excluded.song_count,
			last_updated = excluded.last_updated`

	_, err := db.NamedExecContext(ctx, query, cat)
	return err
}

func (db *DB) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var cat domain.Category
	err := db.GetContext(ctx, &cat, `SELECT id, name, song_count, last_updated FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (db *DB) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats := []domain.Category{}
	err := db.SelectContext(ctx, &cats, `SELECT id, name, song_count, last_updated FROM categories`)
	return cats, err
}
