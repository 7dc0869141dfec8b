package catalog

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultRefreshInterval matches the storefront's one-minute auto-refresh.
const DefaultRefreshInterval = time.Minute

// Refresher periodically re-fetches the catalog and notifies onChange only
// when the rendered properties actually differ from the previous snapshot.
type Refresher struct {
	client   *Client
	interval time.Duration
	onChange func(Catalog)

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewRefresher creates a refresher. onChange may be nil.
func NewRefresher(client *Client, interval time.Duration, onChange func(Catalog)) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		client:   client,
		interval: interval,
		onChange: onChange,
		stop:     make(chan struct{}),
	}
}

// Run refreshes until the context is cancelled or Close is called.
func (r *Refresher) Run(ctx context.Context) {
	r.wg.Add(1)
	go r.loop(ctx)
}

// Close stops the refresh loop and waits for it to exit.
func (r *Refresher) Close() {
	close(r.stop)
	r.wg.Wait()
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	previous := r.client.Current()

	next, err := r.client.FetchProducts(ctx)
	if err != nil {
		log.Printf("catalog auto-refresh failed: %v", err)
		return
	}

	if !Changed(previous, next) {
		return
	}

	log.Printf("catalog changed, notifying")
	if r.onChange != nil {
		r.onChange(next)
	}
}
