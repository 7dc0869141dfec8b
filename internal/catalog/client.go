package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

const (
	fetchAttempts    = 3
	maxRetryInterval = 5 * time.Second
)

// Client fetches the catalog and remembers the last good snapshot so the
// storefront can keep rendering through transient backend failures.
type Client struct {
	baseURL string
	http    *http.Client
	sfg     singleflight.Group // collapses concurrent re-fetches

	mu         sync.RWMutex
	current    Catalog
	categories []Category
}

// NewClient creates a client for the catalog endpoints under baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchProducts retrieves the full catalog and replaces the current snapshot
// on success. Concurrent callers share one in-flight request; whichever fetch
// completes last wins the snapshot.
func (c *Client) FetchProducts(ctx context.Context) (Catalog, error) {
	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		var catalog Catalog
		if err := c.getJSON(ctx, "/api/products", &catalog); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.current = catalog
		c.mu.Unlock()
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Catalog), nil
}

// FetchCategories retrieves the ordered category list.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	v, err, _ := c.sfg.Do("categories", func() (interface{}, error) {
		var categories []Category
		if err := c.getJSON(ctx, "/api/categories", &categories); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.categories = categories
		c.mu.Unlock()
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Category), nil
}

// Current returns the last successfully fetched catalog, which may be nil if
// no fetch ever succeeded.
func (c *Client) Current() Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Categories returns the last successfully fetched category list.
func (c *Client) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categories
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.MaxInterval = maxRetryInterval

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			sleep := backoffCfg.NextBackOff()
			if sleep == backoff.Stop {
				sleep = maxRetryInterval
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sleep):
			}
		}

		if lastErr = c.fetchOnce(ctx, path, out); lastErr == nil {
			return nil
		}
		log.Printf("catalog fetch %s failed (attempt %d): %v", path, attempt+1, lastErr)
	}
	return lastErr
}

func (c *Client) fetchOnce(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
