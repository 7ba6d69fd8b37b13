package dto

import "github.com/cesargomez89/songbook/internal/domain"

// SongResponse carries a song plus its lyrics rendered as plain text.
type SongResponse struct {
	domain.Song
	Text          string `json:"text"`
	SecondaryText string `json:"secondary_text,omitempty"`
	InSetlist     bool   `json:"in_setlist"`
}

func NewSongResponse(s *domain.Song) SongResponse {
	resp := SongResponse{
		Song: *s,
		Text: domain.RenderLyrics(s.Lyrics.PrimaryRaw),
	}
	if s.Lyrics.HasDual {
		resp.SecondaryText = domain.RenderLyrics(s.Lyrics.SecondaryRaw)
	}
	return resp
}

type SongListResponse struct {
	Songs      []domain.Song `json:"songs"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}
