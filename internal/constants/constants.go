// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort           = "8080"
	DefaultDBPath         = "songbook.db"
	DefaultRemoteBaseURL  = "https://raw.githubusercontent.com/dayanidhimk/lyrics-database/main/"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultRetryCount     = 3
	DefaultRetryBase      = 1 * time.Second
	DefaultReconcileDelay = 3 * time.Second
	DefaultProbeTimeout   = 2 * time.Second
	DefaultBusyTimeout    = 30 * time.Second
	DefaultIndexCacheTTL  = 10 * time.Minute
)

// Connectivity probe
const (
	// ProbeMaxLatency is the round-trip below which the remote counts as reachable.
	ProbeMaxLatency = 800 * time.Millisecond
)

// Remote layout
const (
	ManifestFile = "index.json"
)

// Import progress checkpoints
const (
	ProgressParseStart = 5
	ProgressDeleted    = 30
	ProgressInsertCap  = 99
	ProgressDone       = 100
)

// Song ids
const (
	SongIDFormat = "%s_%04d"
)

// Database
const (
	CategoriesTable = "categories"
	SongsTable      = "songs"
	SetlistTable    = "setlist"
	SettingsTable   = "settings"
	CacheTable      = "cache"
)

// HTTP Status Codes
const (
	StatusOK                 = 200
	StatusBadRequest         = 400
	StatusNotFound           = 404
	StatusConflict           = 409
	StatusPayloadTooLarge    = 413
	StatusInternalError      = 500
	StatusBadGateway         = 502
	StatusServiceUnavailable = 503
)

// Request limits
const (
	MaxPayloadBytes = 32 << 20
)
