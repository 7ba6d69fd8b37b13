package dto

import "fmt"

type AddSetlistRequest struct {
	SongID string `json:"song_id"`
}

func (r *AddSetlistRequest) Validate() []ValidationError {
	return validateSongID("song_id", r.SongID)
}

type AddSetlistResponse struct {
	SongID string `json:"song_id"`
	Added  bool   `json:"added"`
}

type ImportSetlistRequest struct {
	SongIDs []string `json:"song_ids"`
}

func (r *ImportSetlistRequest) Validate() []ValidationError {
	var errs []ValidationError
	for i, id := range r.SongIDs {
		errs = append(errs, validateSongID(fmt.Sprintf("song_ids[%d]", i), id)...)
	}
	return errs
}

type ImportSetlistResponse struct {
	Added int `json:"added"`
}

type ExportSetlistResponse struct {
	SongIDs []string `json:"song_ids"`
}
