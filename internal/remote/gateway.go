// Package remote reads the upstream lyrics repository: a JSON index of
// categories and one XML payload file per category.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cesargomez89/songbook/internal/constants"
	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/httpclient"
)

// Gateway is the source of truth the local catalog is synced from.
type Gateway interface {
	FetchIndex(ctx context.Context) ([]domain.ManifestEntry, error)
	FetchCategoryPayload(ctx context.Context, file string) ([]byte, error)
}

type HTTPGateway struct {
	Client   *httpclient.Client
	baseURL  *url.URL
	maxBytes int64
}

func NewHTTPGateway(baseURL string, client *httpclient.Client) (*HTTPGateway, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url %q: %w", baseURL, err)
	}
	if client == nil {
		client = httpclient.NewClient(nil, 0)
	}
	return &HTTPGateway{Client: client, baseURL: u, maxBytes: constants.MaxPayloadBytes}, nil
}

// ManifestURL is the index location. The connectivity probe hits it too.
func (g *HTTPGateway) ManifestURL() string {
	return g.fileURL(constants.ManifestFile)
}

func (g *HTTPGateway) FetchIndex(ctx context.Context) ([]domain.ManifestEntry, error) {
	body, err := g.get(ctx, g.ManifestURL())
	if err != nil {
		return nil, err
	}

	var entries []domain.ManifestEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode index: %w", domain.ErrRemoteUnavailable, err)
	}
	return entries, nil
}

func (g *HTTPGateway) FetchCategoryPayload(ctx context.Context, file string) ([]byte, error) {
	if file == "" {
		return nil, fmt.Errorf("%w: empty file name", domain.ErrRemoteUnavailable)
	}
	return g.get(ctx, g.fileURL(file))
}

func (g *HTTPGateway) fileURL(file string) string {
	return g.baseURL.JoinPath(file).String()
}

func (g *HTTPGateway) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}

	resp, err := g.Client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", domain.ErrRemoteUnavailable, target, err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", domain.ErrRemoteUnavailable, target, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrRemoteUnavailable, target, err)
	}
	if int64(len(body)) > g.maxBytes {
		return nil, fmt.Errorf("%w: GET %s: payload too large (limit %d bytes)", domain.ErrRemoteUnavailable, target, g.maxBytes)
	}
	return body, nil
}

// Find returns the manifest entry with the given category id.
func Find(entries []domain.ManifestEntry, id string) (domain.ManifestEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.ManifestEntry{}, false
}
