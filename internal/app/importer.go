package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/remote"
	"github.com/cesargomez89/songbook/internal/store"
)

// RecordParser decodes a category payload into song records, in order.
type RecordParser interface {
	Parse(payload []byte) ([]domain.RawSong, error)
}

// ProgressFunc receives import progress as a percentage. Values never
// decrease and the last one of a successful import is 100.
type ProgressFunc func(percent int)

type ImportResult struct {
	CategoryID string `json:"category_id"`
	SongCount  int    `json:"song_count"`
	Replaced   int64  `json:"replaced"`
	Skipped    bool   `json:"skipped"`
}

type ImportService struct {
	Repo   *store.DB
	Parser RecordParser
	Remote remote.Gateway
	Logger *logger.Logger
	now    func() time.Time
}

func NewImportService(repo *store.DB, parser RecordParser, gw remote.Gateway, log *logger.Logger) *ImportService {
	return &ImportService{
		Repo:   repo,
		Parser: parser,
		Remote: gw,
		Logger: log.WithComponent("importer"),
		now:    time.Now,
	}
}

// ImportCategory replaces one category's songs with the records in payload.
//
// The category id comes from the records themselves. Deleting the old songs,
// writing the summary row and inserting the new songs happen in a single
// transaction, so readers see either the previous set or the new one. An
// empty payload leaves the store untouched.
func (s *ImportService) ImportCategory(ctx context.Context, payload []byte, onProgress ProgressFunc) (*ImportResult, error) {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	report(constants.ProgressParseStart)
	records, err := s.Parser.Parse(payload)
	if err != nil {
		if !errors.Is(err, domain.ErrParse) {
			err = fmt.Errorf("%w: %w", domain.ErrParse, err)
		}
		return nil, err
	}

	if len(records) == 0 {
		s.Logger.Info("Empty payload, nothing imported")
		report(constants.ProgressDone)
		return &ImportResult{Skipped: true}, nil
	}

	categoryID, err := categoryOf(records)
	if err != nil {
		return nil, err
	}

	log := s.Logger.WithCategory(categoryID)
	debug := log.Enabled(ctx, slog.LevelDebug)
	total := len(records)
	result := &ImportResult{CategoryID: categoryID, SongCount: total}

	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		deleted, err := tx.DeleteSongsByCategory(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("delete songs: %w", err)
		}
		result.Replaced = deleted
		report(constants.ProgressDeleted)

		cat := &domain.Category{
			ID:          categoryID,
			Name:        categoryID,
			SongCount:   total,
			LastUpdated: s.now(),
		}
		if err := tx.UpsertCategory(ctx, cat); err != nil {
			return fmt.Errorf("upsert category: %w", err)
		}

		for i, rec := range records {
			song := rec.ToSong(categoryID, i+1)
			if err := tx.UpsertSong(ctx, &song); err != nil {
				return fmt.Errorf("upsert song %s: %w", song.ID, err)
			}
			if debug {
				log.WithSong(song.ID, song.Name).Debug("Song stored")
			}
			report(insertProgress(i+1, total))
		}

		stored, err := tx.CountSongsByCategory(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("count songs: %w", err)
		}
		if stored != total {
			return fmt.Errorf("stored %d songs, expected %d", stored, total)
		}
		return nil
	})
	if err != nil {
		log.Error("Import failed", "error", err)
		return nil, storageErr("import category", err)
	}

	report(constants.ProgressDone)
	log.Info("Category imported", "songs", total, "replaced", result.Replaced)
	return result, nil
}

// UpdateCategory fetches one category from the remote by id and imports it.
func (s *ImportService) UpdateCategory(ctx context.Context, categoryID string, onProgress ProgressFunc) (*ImportResult, error) {
	entries, err := s.Remote.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := remote.Find(entries, categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, categoryID)
	}

	payload, err := s.Remote.FetchCategoryPayload(ctx, entry.File)
	if err != nil {
		return nil, err
	}

	result, err := s.ImportCategory(ctx, payload, onProgress)
	if err != nil {
		return nil, err
	}
	if !result.Skipped && result.CategoryID != categoryID {
		s.Logger.Warn("Remote file declares a different category",
			"requested", categoryID, "file", entry.File, "declared", result.CategoryID)
	}
	return result, nil
}

// cacheClearer is implemented by gateways that keep the remote index cached.
type cacheClearer interface {
	ClearCache(ctx context.Context) error
}

// RefreshRemote drops any cached copy of the remote index so the next read
// goes to the network. Gateways without a cache are left as they are.
func (s *ImportService) RefreshRemote(ctx context.Context) error {
	c, ok := s.Remote.(cacheClearer)
	if !ok {
		return nil
	}
	if err := c.ClearCache(ctx); err != nil {
		return storageErr("clear remote cache", err)
	}
	s.Logger.Debug("Remote index cache cleared")
	return nil
}

// RemoteCatalog lists the remote index, marking entries already present locally.
func (s *ImportService) RemoteCatalog(ctx context.Context) ([]domain.RemoteCategory, error) {
	entries, err := s.Remote.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	local, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	installed := make(map[string]bool, len(local))
	for _, c := range local {
		installed[c.ID] = true
	}

	out := make([]domain.RemoteCategory, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.RemoteCategory{ManifestEntry: e, Installed: installed[e.ID]})
	}
	return out, nil
}

// categoryOf returns the category shared by every record. Payloads that mix
// categories are rejected rather than filed under the first one.
func categoryOf(records []domain.RawSong) (string, error) {
	id := records[0].Category
	if id == "" {
		return "", fmt.Errorf("%w: first song has no category", domain.ErrParse)
	}
	for i, rec := range records[1:] {
		if rec.Category != id {
			return "", fmt.Errorf("%w: song %d has %q, expected %q", domain.ErrMixedCategory, i+2, rec.Category, id)
		}
	}
	return id, nil
}

// insertProgress spreads the inserts over 30..99; 100 is kept for the commit.
func insertProgress(done, total int) int {
	span := constants.ProgressDone - constants.ProgressDeleted
	p := constants.ProgressDeleted + span*done/total
	if p > constants.ProgressInsertCap {
		p = constants.ProgressInsertCap
	}
	return p
}
