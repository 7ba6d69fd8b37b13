package app

import (
	"context"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/store"
)

// QueryService is the read side of the catalog. It never writes, and an
// empty result is an empty slice, never an error.
type QueryService struct {
	Repo   *store.DB
	Logger *logger.Logger
	Locale language.Tag
}

func NewQueryService(repo *store.DB, log *logger.Logger) *QueryService {
	return &QueryService{
		Repo:   repo,
		Logger: log.WithComponent("queries"),
		Locale: language.Und,
	}
}

// ListCategories returns every local category in storage order.
func (s *QueryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	return cats, nil
}

// GetCategory returns nil without error when the category is not installed.
func (s *QueryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storageErr("get category", err)
	}
	return cat, nil
}

// ListSongs returns the songs of categoryID, or all songs when it is empty,
// sorted by name.
func (s *QueryService) ListSongs(ctx context.Context, categoryID string) ([]domain.Song, error) {
	var (
		songs []domain.Song
		err   error
	)
	if categoryID == "" {
		songs, err = s.Repo.ListSongs(ctx)
	} else {
		songs, err = s.Repo.ListSongsByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, storageErr("list songs", err)
	}
	s.sortByName(songs)
	return songs, nil
}

func (s *QueryService) SearchGlobal(ctx context.Context, query string) ([]domain.Song, error) {
	songs, err := s.Repo.SearchSongs(ctx, domain.NormalizeText(query))
	if err != nil {
		return nil, storageErr("search songs", err)
	}
	s.sortByName(songs)
	return songs, nil
}

func (s *QueryService) SearchInCategory(ctx context.Context, categoryID, query string) ([]domain.Song, error) {
	songs, err := s.Repo.SearchSongsInCategory(ctx, categoryID, domain.NormalizeText(query))
	if err != nil {
		return nil, storageErr("search songs", err)
	}
	s.sortByName(songs)
	return songs, nil
}

// GetByID returns nil without error when the song does not exist.
func (s *QueryService) GetByID(ctx context.Context, songID string) (*domain.Song, error) {
	song, err := s.Repo.GetSong(ctx, songID)
	if err != nil {
		return nil, storageErr("get song", err)
	}
	return song, nil
}

// sortByName orders songs by locale collation. A Collator is not safe for
// concurrent use, so each call builds its own.
func (s *QueryService) sortByName(songs []domain.Song) {
	c := collate.New(s.Locale)
	slices.SortStableFunc(songs, func(a, b domain.Song) int {
		return c.CompareString(a.Name, b.Name)
	})
}
