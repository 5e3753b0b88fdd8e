// internal/domain/catalog/browser.go
package catalog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the browser's fetch state
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// View is the display-ready result of the current filters over the held
// pages. Products carries only the lines matching the client-side
// predicates; FetchedCount is the size of the underlying held list,
// which pagination operates on.
type View struct {
	Products     []Product   `json:"products"`
	FetchedCount int         `json:"fetched_count"`
	Total        int         `json:"total"`
	HasMore      bool        `json:"has_more"`
	State        State       `json:"state"`
	Filters      FilterState `json:"filters"`
}

// Browser composes filter state with paginated catalog queries. Only the
// search term goes to the catalog server-side; category, price bounds
// and rating floor are predicates over the pages already held, so the
// displayed count can be smaller than the fetched count and HasMore
// tracks server pages, not filtered results.
type Browser struct {
	client   *Client
	pageSize int
	logger   *logrus.Logger

	mu       sync.Mutex
	filters  FilterState
	state    State
	products []Product
	page     int
	total    int
	hasMore  bool
}

// NewBrowser creates a catalog browser in the idle state with default
// filters.
func NewBrowser(client *Client, pageSize int, logger *logrus.Logger) *Browser {
	return &Browser{
		client:   client,
		pageSize: pageSize,
		logger:   logger,
		filters:  DefaultFilters(),
		state:    StateIdle,
	}
}

// View returns the current filtered view
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Load fetches the first page, discarding prior results
func (b *Browser) Load(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.fetchLocked(ctx, 1, true)
	return b.viewLocked()
}

// LoadMore appends the next server page to the held list. When no more
// pages exist it is a no-op.
func (b *Browser) LoadMore(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasMore {
		return b.viewLocked()
	}
	b.fetchLocked(ctx, b.page+1, false)
	return b.viewLocked()
}

// UpdateFilter applies one typed filter update. Changing the search term
// restarts pagination from page 1 and discards prior results; the other
// fields only re-filter the pages already held.
func (b *Browser) UpdateFilter(ctx context.Context, update FilterUpdate) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	prevQuery := b.filters.SearchQuery
	b.filters.Apply(update)

	if b.filters.SearchQuery != prevQuery {
		b.fetchLocked(ctx, 1, true)
	}
	return b.viewLocked()
}

// ResetFilters restores the fixed defaults, reloading from page 1 when
// the search term had been set.
func (b *Browser) ResetFilters(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	hadQuery := b.filters.SearchQuery != ""
	b.filters.Reset()

	if hadQuery {
		b.fetchLocked(ctx, 1, true)
	}
	return b.viewLocked()
}

// RefreshStock re-fetches the held server pages and patches stock and
// availability in place. It does not grow or reorder the held list, so a
// session's pagination position is unaffected.
func (b *Browser) RefreshStock(ctx context.Context) {
	b.mu.Lock()
	query := b.filters.SearchQuery
	pages := b.page
	limit := b.pageSize
	held := len(b.products)
	b.mu.Unlock()

	if held == 0 {
		return
	}

	fresh := make(map[int]Product, held)
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page, err := b.fetchPage(ctx, query, pageNum, limit)
		if err != nil {
			b.logger.WithError(err).Debug("Stock refresh fetch failed")
			return
		}
		for _, p := range page.Products {
			fresh[p.ID] = p
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if p, ok := fresh[b.products[i].ID]; ok {
			b.products[i].Stock = p.Stock
			b.products[i].AvailabilityStatus = p.AvailabilityStatus
		}
	}
}

// fetchLocked runs one page fetch. A failure or malformed response
// collapses the held list to empty with HasMore false; there is no
// automatic retry, the next user action fetches again.
func (b *Browser) fetchLocked(ctx context.Context, pageNum int, reset bool) {
	b.state = StateLoading

	page, err := b.fetchPage(ctx, b.filters.SearchQuery, pageNum, b.pageSize)
	if err != nil {
		b.logger.WithError(err).Warn("Catalog fetch failed")
		b.products = nil
		b.page = 0
		b.total = 0
		b.hasMore = false
		b.state = StateError
		return
	}

	if reset {
		b.products = page.Products
	} else {
		b.products = append(b.products, page.Products...)
	}
	b.page = pageNum
	b.total = page.Total
	b.hasMore = page.Skip+len(page.Products) < page.Total
	b.state = StateLoaded
}

func (b *Browser) fetchPage(ctx context.Context, query string, pageNum, limit int) (*Page, error) {
	skip := (pageNum - 1) * limit
	if query != "" {
		return b.client.Search(ctx, query, limit, skip)
	}
	return b.client.List(ctx, limit, skip)
}

func (b *Browser) viewLocked() View {
	view := View{
		Products:     make([]Product, 0, len(b.products)),
		FetchedCount: len(b.products),
		Total:        b.total,
		HasMore:      b.hasMore,
		State:        b.state,
		Filters:      b.filters,
	}
	for _, p := range b.products {
		if b.filters.Matches(&p) {
			view.Products = append(view.Products, p)
		}
	}
	return view
}
