// internal/domain/catalog/refresher.go
package catalog

import (
	"context"
	"time"
)

// StockRefresher periodically re-fetches a browser's held pages so the
// stock affordance tracks the catalog instead of a stale snapshot.
type StockRefresher struct {
	browser  *Browser
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewStockRefresher creates a refresher for the browser
func NewStockRefresher(browser *Browser, interval time.Duration) *StockRefresher {
	return &StockRefresher{
		browser:  browser,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the refresh loop until Stop is called
func (r *StockRefresher) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.browser.RefreshStock(context.Background())
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the refresh loop and waits for it to exit
func (r *StockRefresher) Stop() {
	close(r.stop)
	<-r.done
}
