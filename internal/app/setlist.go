package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/store"
)

type SetlistService struct {
	Repo   *store.DB
	Logger *logger.Logger
	newID  func() string
}

func NewSetlistService(repo *store.DB, log *logger.Logger) *SetlistService {
	return &SetlistService{
		Repo:   repo,
		Logger: log.WithComponent("setlist"),
		newID:  uuid.NewString,
	}
}

// Add appends songID to the end of the setlist. It reports false, without
// changing anything, when the song is already there.
func (s *SetlistService) Add(ctx context.Context, songID string) (bool, error) {
	entry := &domain.SetlistEntry{
		ID:     s.newID(),
		SongID: songID,
	}
	inserted, err := s.Repo.AddSetlistEntry(ctx, entry)
	if err != nil {
		return false, storageErr("add to setlist", err)
	}
	if inserted {
		s.Logger.Info("Song added to setlist", "song_id", songID, "entry_id", entry.ID, "order", entry.Order)
	}
	return inserted, nil
}

func (s *SetlistService) List(ctx context.Context) ([]domain.SetlistEntry, error) {
	entries, err := s.Repo.ListSetlist(ctx)
	if err != nil {
		return nil, storageErr("list setlist", err)
	}
	return entries, nil
}

func (s *SetlistService) Contains(ctx context.Context, songID string) (bool, error) {
	in, err := s.Repo.IsSongInSetlist(ctx, songID)
	if err != nil {
		return false, storageErr("check setlist", err)
	}
	return in, nil
}

// Remove deletes one entry by id. Unknown ids are ignored and the remaining
// entries keep their order values.
func (s *SetlistService) Remove(ctx context.Context, entryID string) error {
	removed, err := s.Repo.DeleteSetlistEntry(ctx, entryID)
	if err != nil {
		return storageErr("remove from setlist", err)
	}
	if removed {
		s.Logger.Info("Setlist entry removed", "entry_id", entryID)
	}
	return nil
}

func (s *SetlistService) Clear(ctx context.Context) error {
	if err := s.Repo.ClearSetlist(ctx); err != nil {
		return storageErr("clear setlist", err)
	}
	s.Logger.Info("Setlist cleared")
	return nil
}

// Export returns the song ids of the setlist in order.
func (s *SetlistService) Export(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.SongID)
	}
	return ids, nil
}

// Import appends each song id that is not in the setlist yet, keeping the
// given order, and returns how many were added.
func (s *SetlistService) Import(ctx context.Context, songIDs []string) (int, error) {
	added := 0
	for _, id := range songIDs {
		if id == "" {
			continue
		}
		ok, err := s.Add(ctx, id)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}
