package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cesargomez89/songbook/internal/app"
	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/remote"
	"github.com/cesargomez89/songbook/internal/store"
)

var ErrReconcileInProgress = errors.New("reconcile already in progress")

// Checker reports whether syncing is worth attempting right now.
type Checker interface {
	Probe(ctx context.Context, timeout time.Duration) bool
}

// Summary describes one finished pass.
type Summary struct {
	StartedAt time.Time `json:"started_at"`
	Skipped   bool      `json:"skipped"`
	Imported  []string  `json:"imported"`
	Failed    []string  `json:"failed"`
}

// Reconciler re-imports every remote category. Only one pass runs at a time.
type Reconciler struct {
	Importer     *app.ImportService
	Remote       remote.Gateway
	Checker      Checker
	Settings     *store.SettingsRepo
	Logger       *logger.Logger
	ProbeTimeout time.Duration

	running atomic.Bool

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewReconciler(importer *app.ImportService, gw remote.Gateway, checker Checker, settings *store.SettingsRepo, log *logger.Logger) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		Importer:     importer,
		Remote:       gw,
		Checker:      checker,
		Settings:     settings,
		Logger:       log.WithComponent("reconcile"),
		ProbeTimeout: constants.DefaultProbeTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Reconcile runs one pass. Network trouble is logged, never returned; the
// only error is ErrReconcileInProgress when another pass holds the slot.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	_, err := r.Run(ctx)
	return err
}

// Run is Reconcile with a report of what happened.
func (r *Reconciler) Run(ctx context.Context) (*Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrReconcileInProgress
	}
	defer r.running.Store(false)

	summary := &Summary{StartedAt: time.Now(), Imported: []string{}, Failed: []string{}}

	if !r.Checker.Probe(ctx, r.ProbeTimeout) {
		r.Logger.Info("Remote not reachable, skipping sync")
		summary.Skipped = true
		return summary, nil
	}

	entries, err := r.Remote.FetchIndex(ctx)
	if err != nil {
		r.Logger.Warn("Failed to fetch remote index", "error", err)
		summary.Skipped = true
		return summary, nil
	}

	local, err := r.Importer.Repo.ListCategories(ctx)
	if err != nil {
		r.Logger.Warn("Failed to list local categories", "error", err)
	} else {
		ids := make([]string, 0, len(local))
		for _, c := range local {
			ids = append(ids, c.ID)
		}
		r.Logger.Debug("Local categories", "ids", ids)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			r.Logger.Info("Sync cancelled", "remaining", len(entries)-len(summary.Imported)-len(summary.Failed))
			return summary, nil
		}

		log := r.Logger.WithCategory(entry.ID)
		payload, err := r.Remote.FetchCategoryPayload(ctx, entry.File)
		if err != nil {
			log.Warn("Failed to fetch category", "file", entry.File, "error", err)
			summary.Failed = append(summary.Failed, entry.ID)
			continue
		}

		if _, err := r.Importer.ImportCategory(ctx, payload, nil); err != nil {
			log.Warn("Failed to import category", "file", entry.File, "error", err)
			summary.Failed = append(summary.Failed, entry.ID)
			continue
		}
		summary.Imported = append(summary.Imported, entry.ID)
	}

	if r.Settings != nil {
		if err := r.Settings.Set(ctx, store.SettingLastReconcile, summary.StartedAt.UTC().Format(time.RFC3339)); err != nil {
			r.Logger.Warn("Failed to record sync time", "error", err)
		}
	}

	r.Logger.Info("Sync finished", "imported", len(summary.Imported), "failed", len(summary.Failed))
	return summary, nil
}

// Schedule runs one pass after delay on a background goroutine. It does
// nothing after Stop.
func (r *Reconciler) Schedule(delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}

	r.wg.Add(1)
	r.timer = time.AfterFunc(delay, func() {
		defer r.wg.Done()
		if err := r.Reconcile(r.ctx); err != nil {
			r.Logger.Debug("Scheduled sync not started", "error", err)
		}
	})
}

// Stop cancels a pending scheduled pass and waits for a running one.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	r.stopped = true
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
}

// LastReconciled returns when the last completed pass started, or the zero
// time if none has completed yet.
func (r *Reconciler) LastReconciled(ctx context.Context) (time.Time, error) {
	if r.Settings == nil {
		return time.Time{}, nil
	}
	raw, err := r.Settings.Get(ctx, store.SettingLastReconcile)
	if err != nil {
		return time.Time{}, fmt.Errorf("read last sync time: %w", err)
	}
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last sync time %q: %w", raw, err)
	}
	return t, nil
}
