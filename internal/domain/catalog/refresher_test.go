package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRefresher_PatchesStockPeriodically(t *testing.T) {
	f := newCatalogFixture(t, 12)
	b := newTestBrowser(t, f.server.URL)

	view := b.Load(context.Background())
	require.Equal(t, 10, view.Products[0].Stock)

	f.mu.Lock()
	f.stock[1] = 0
	f.mu.Unlock()

	r := NewStockRefresher(b, 10*time.Millisecond)
	r.Start()
	defer r.Stop()

	assert.Eventually(t, func() bool {
		return b.View().Products[0].Stock == 0
	}, time.Second, 10*time.Millisecond)
}

func TestStockRefresher_StopHaltsTheLoop(t *testing.T) {
	f := newCatalogFixture(t, 12)
	b := newTestBrowser(t, f.server.URL)
	b.Load(context.Background())

	r := NewStockRefresher(b, 5*time.Millisecond)
	r.Start()
	r.Stop()

	after := f.requests.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, f.requests.Load())
}
