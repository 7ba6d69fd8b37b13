// Package bootstrap wires the store, remote gateway and services from a Config.
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cesargomez89/songbook/internal/app"
	"github.com/cesargomez89/songbook/internal/config"
	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/httpclient"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/reconcile"
	"github.com/cesargomez89/songbook/internal/remote"
	"github.com/cesargomez89/songbook/internal/songxml"
	"github.com/cesargomez89/songbook/internal/store"
)

// minRequestInterval spaces out requests to the remote host.
const minRequestInterval = 100 * time.Millisecond

type Services struct {
	DB         *store.DB
	Settings   *store.SettingsRepo
	Gateway    *remote.HTTPGateway
	Importer   *app.ImportService
	Queries    *app.QueryService
	Setlist    *app.SetlistService
	Reconciler *reconcile.Reconciler
}

// New opens the store through opener and builds every service on top of it.
// A store that cannot be opened yields an error wrapping domain.ErrStorageUnavailable.
//
// The importer reads the remote index through a short-lived cache; the
// reconciler always fetches it fresh.
func New(cfg *config.Config, opener *store.Opener, log *logger.Logger) (*Services, error) {
	db, err := opener.Open()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	gw, err := remote.NewHTTPGateway(cfg.RemoteBaseURL, httpclient.NewClient(httpClient, minRequestInterval))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("remote gateway: %w", err)
	}

	offline := cfg.Offline
	// The probe bypasses rate limiting and retries: one timed attempt only.
	prober := reconcile.NewProber(gw.Client.GetUnderlyingClient(), gw.ManifestURL(), func() bool { return offline })

	settings := store.NewSettingsRepo(db)
	cached := remote.NewCachedGateway(gw, db, constants.DefaultIndexCacheTTL)
	importer := app.NewImportService(db, songxml.New(), cached, log)
	rec := reconcile.NewReconciler(importer, gw, prober, settings, log)
	rec.ProbeTimeout = cfg.ProbeTimeout

	return &Services{
		DB:         db,
		Settings:   settings,
		Gateway:    gw,
		Importer:   importer,
		Queries:    app.NewQueryService(db, log),
		Setlist:    app.NewSetlistService(db, log),
		Reconciler: rec,
	}, nil
}

// Close stops background work and closes the store.
func (s *Services) Close() error {
	s.Reconciler.Stop()
	return s.DB.Close()
}
