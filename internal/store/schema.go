package store

import "github.com/cesargomez89/songbook/internal/constants"

const Schema = `
CREATE TABLE IF NOT EXISTS ` + constants.CategoriesTable + ` (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	song_count INTEGER NOT NULL DEFAULT 0,
	last_updated DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS ` + constants.SongsTable + ` (
	id TEXT PRIMARY KEY,
	category_id TEXT NOT NULL REFERENCES ` + constants.CategoriesTable + `(id),
	name TEXT NOT NULL DEFAULT '',
	name2 TEXT NOT NULL DEFAULT '',
	search_index TEXT NOT NULL DEFAULT '',

	-- JSON objects
	fonts TEXT,
	lyrics TEXT,
	meta TEXT,

	key_name TEXT NOT NULL DEFAULT '',
	youtube TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_songs_category_id ON ` + constants.SongsTable + `(category_id);
CREATE INDEX IF NOT EXISTS idx_songs_name ON ` + constants.SongsTable + `(name);
CREATE INDEX IF NOT EXISTS idx_songs_search_index ON ` + constants.SongsTable + `(search_index);

-- song_id is unique so adding the same song twice is a no-op
CREATE TABLE IF NOT EXISTS ` + constants.SetlistTable + ` (
	id TEXT PRIMARY KEY,
	song_id TEXT NOT NULL UNIQUE,
	position INTEGER NOT NULL,
	added_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_setlist_position ON ` + constants.SetlistTable + `(position);

CREATE TABLE IF NOT EXISTS ` + constants.CacheTable + ` (
	key TEXT PRIMARY KEY,
	data BLOB,
	expires_at DATETIME
);

CREATE TABLE IF NOT EXISTS ` + constants.SettingsTable + ` (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
