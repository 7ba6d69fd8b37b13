package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/cesargomez89/songbook/internal/constants"
)

// Category is the summary row for one remote category, written wholesale on import.
type Category struct {
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SongCount   int       `json:"song_count" db:"song_count"`
}

// Fonts holds the display font names for the two lyric languages.
type Fonts struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Lyrics keeps the raw slide markup as it arrived in the payload.
type Lyrics struct {
	PrimaryRaw   string `json:"primary_raw"`
	SecondaryRaw string `json:"secondary_raw"`
	HasDual      bool   `json:"has_dual"`
}

// SongMeta carries presentation fields the catalog stores but never queries.
type SongMeta struct {
	Timestamp string `json:"timestamp"`
	Bkgnd     string `json:"bkgnd"`
	Copyright string `json:"copyright"`
	Notes     string `json:"notes"`
	Tags      string `json:"tags"`
	SlideSeq  string `json:"slideseq"`
	SubCat    string `json:"subcat"`
}

// Song is one catalog entry. Its ID is regenerated on every import of its category.
type Song struct {
	ID          string   `json:"id" db:"id"`
	CategoryID  string   `json:"category_id" db:"category_id"`
	Name        string   `json:"name" db:"name"`
	Name2       string   `json:"name2" db:"name2"`
	SearchIndex string   `json:"-" db:"search_index"`
	Fonts       Fonts    `json:"fonts" db:"fonts"`
	Key         string   `json:"key" db:"key_name"`
	YouTube     string   `json:"youtube" db:"youtube"`
	Lyrics      Lyrics   `json:"lyrics" db:"lyrics"`
	Meta        SongMeta `json:"meta" db:"meta"`
}

// SetlistEntry references a song in the user's setlist. SongID is not a foreign key.
type SetlistEntry struct {
	AddedAt time.Time `json:"added_at" db:"added_at"`
	ID      string    `json:"id" db:"id"`
	SongID  string    `json:"song_id" db:"song_id"`
	Order   int       `json:"order" db:"position"`
}

// ManifestEntry is one line of the remote index.
type ManifestEntry struct {
	ID   string `json:"id"`
	File string `json:"file"`
	Name string `json:"name"`
}

// RemoteCategory is a manifest entry annotated with local state.
type RemoteCategory struct {
	ManifestEntry
	Installed bool `json:"installed"`
}

// RawSong is a parsed song record before it is bound to a category id.
type RawSong struct {
	Category string
	Name     string
	Name2    string
	Fonts    Fonts
	Key      string
	YouTube  string
	Lyrics   Lyrics
	Meta     SongMeta
}

// SongID builds the sequential id for the n-th (1-based) song of a category.
func SongID(categoryID string, n int) string {
	return fmt.Sprintf(constants.SongIDFormat, categoryID, n)
}

// ToSong binds a raw record to its category and sequence number.
func (r RawSong) ToSong(categoryID string, n int) Song {
	return Song{
		ID:          SongID(categoryID, n),
		CategoryID:  categoryID,
		Name:        r.Name,
		Name2:       r.Name2,
		SearchIndex: NormalizeText(r.Name + " " + r.Name2),
		Fonts:       r.Fonts,
		Key:         r.Key,
		YouTube:     r.YouTube,
		Lyrics:      r.Lyrics,
		Meta:        r.Meta,
	}
}

// HasDualText reports whether a secondary slide block has any visible content.
func HasDualText(secondaryRaw string) bool {
	return strings.TrimSpace(secondaryRaw) != ""
}
