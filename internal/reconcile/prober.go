// Package reconcile keeps the local catalog in step with the remote
// repository when the network allows it.
package reconcile

import (
	"context"
	"net/http"
	"time"

	"github.com/cesargomez89/songbook/internal/constants"
)

// Prober decides whether the remote is reachable and fast enough to sync from.
type Prober struct {
	Client     *http.Client
	URL        string
	Offline    func() bool
	MaxLatency time.Duration
}

func NewProber(client *http.Client, url string, offline func() bool) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	return &Prober{
		Client:     client,
		URL:        url,
		Offline:    offline,
		MaxLatency: constants.ProbeMaxLatency,
	}
}

// Probe issues one GET against the manifest URL. It reports true only for a
// 2xx answer that arrives within MaxLatency. A non-positive timeout falls
// back to the default.
func (p *Prober) Probe(ctx context.Context, timeout time.Duration) bool {
	if p.Offline != nil && p.Offline() {
		return false
	}
	if timeout <= 0 {
		timeout = constants.DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	elapsed := time.Since(start)
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}
	return elapsed < p.MaxLatency
}
