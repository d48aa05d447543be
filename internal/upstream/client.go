// Package upstream fetches telemetry pages from the PetDex API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/petdex/analytics/internal/config"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/models"
	"github.com/petdex/analytics/internal/observability"
)

// ErrUpstreamUnavailable is wrapped by every fetch failure
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// maxSequentialPages caps the walk when the API does not report totalPages,
// and the page count it may report
const maxSequentialPages = 10000

// Page is one page of the upstream collection
type Page struct {
	Content       []json.RawMessage `json:"content"`
	TotalPages    int               `json:"totalPages"`
	TotalElements int               `json:"totalElements"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
}

// StatusError is returned for a non-2xx upstream response
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

// Client queries the paginated telemetry endpoints of one animal
type Client struct {
	cfg    config.UpstreamConfig
	http   *http.Client
	logger *logging.Logger
}

// NewClient creates a Client. The per-attempt timeout comes from cfg.Timeout.
func NewClient(cfg config.UpstreamConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
	}
}

// pageURL builds {base}/{kind}/animal/{animalID}?page=&size=
func (c *Client) pageURL(kind models.TelemetryKind, page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return fmt.Sprintf("%s/%s/animal/%s?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), kind, url.PathEscape(c.cfg.AnimalID), q.Encode())
}

// FetchPage fetches one page, retrying transient failures.
// Network errors, 5xx and 429 are retried; other statuses fail at once.
func (c *Client) FetchPage(ctx context.Context, kind models.TelemetryKind, page, size int) (*Page, error) {
	if size <= 0 {
		size = c.cfg.PageSize
	}
	target := c.pageURL(kind, page, size)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryBackoff
	if c.cfg.MaxBackoff > 0 {
		policy.MaxInterval = c.cfg.MaxBackoff
	}
	policy.MaxElapsedTime = 0

	var b backoff.BackOff = policy
	b = backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries))
	b = backoff.WithContext(b, ctx)

	var result *Page
	operation := func() error {
		p, err := c.get(ctx, target)
		observability.RecordPageRequest(string(kind), err)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = p
		return nil
	}

	notify := func(err error, wait time.Duration) {
		observability.RecordRetry(string(kind))
		c.logger.WithContext(ctx).Warn("Retrying upstream page",
			"kind", string(kind),
			"page", page,
			"wait", wait.String(),
			"error", err)
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, fmt.Errorf("%w: %s page %d: %v", ErrUpstreamUnavailable, kind, page, err)
	}
	return result, nil
}

// get performs a single attempt bounded by the per-attempt timeout
func (c *Client) get(ctx context.Context, target string) (*Page, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: target}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}

func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// FetchAll fetches every page of a collection. Page 0 reports the page count;
// the remaining pages are fetched concurrently and concatenated in page order.
// Any page failure aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context, kind models.TelemetryKind) ([]json.RawMessage, error) {
	started := time.Now()
	defer observability.ObserveFetch(string(kind), started)

	first, err := c.FetchPage(ctx, kind, 0, c.cfg.PageSize)
	if err != nil {
		return nil, err
	}

	if first.TotalPages <= 0 {
		return c.fetchUntilEmpty(ctx, kind, first)
	}
	if first.TotalPages > maxSequentialPages {
		return nil, fmt.Errorf("%w: %s reports %d pages, limit is %d",
			ErrUpstreamUnavailable, kind, first.TotalPages, maxSequentialPages)
	}

	pages := make([][]json.RawMessage, first.TotalPages)
	pages[0] = first.Content

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i := 1; i < first.TotalPages; i++ {
		i := i
		g.Go(func() error {
			p, err := c.FetchPage(gctx, kind, i, c.cfg.PageSize)
			if err != nil {
				return err
			}
			pages[i] = p.Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, content := range pages {
		total += len(content)
	}
	out := make([]json.RawMessage, 0, total)
	for _, content := range pages {
		out = append(out, content...)
	}

	c.logger.Debug("Fetched upstream collection",
		"kind", string(kind),
		"pages", first.TotalPages,
		"records", len(out),
		"duration", time.Since(started).String())
	return out, nil
}

// fetchUntilEmpty walks pages sequentially until one comes back empty
func (c *Client) fetchUntilEmpty(ctx context.Context, kind models.TelemetryKind, first *Page) ([]json.RawMessage, error) {
	out := append([]json.RawMessage(nil), first.Content...)
	if len(first.Content) == 0 {
		return out, nil
	}

	for page := 1; page < maxSequentialPages; page++ {
		p, err := c.FetchPage(ctx, kind, page, c.cfg.PageSize)
		if err != nil {
			return nil, err
		}
		if len(p.Content) == 0 {
			break
		}
		out = append(out, p.Content...)
	}
	return out, nil
}
