// internal/domain/catalog/filter.go
package catalog

// Filter defaults. Resetting always restores exactly these values.
const (
	DefaultPriceMin  = 0
	DefaultPriceMax  = 2000
	DefaultMinRating = 0
)

// FilterState holds the active query constraints. It is ephemeral and
// process-local, never persisted. The zero value is not valid; use
// DefaultFilters.
type FilterState struct {
	Category    string  `json:"category"`
	PriceMin    float64 `json:"price_min"`
	PriceMax    float64 `json:"price_max"`
	MinRating   float64 `json:"min_rating"`
	SearchQuery string  `json:"search_query"`
}

// DefaultFilters returns the fixed unconstrained default
func DefaultFilters() FilterState {
	return FilterState{
		Category:    "",
		PriceMin:    DefaultPriceMin,
		PriceMax:    DefaultPriceMax,
		MinRating:   DefaultMinRating,
		SearchQuery: "",
	}
}

// FilterUpdate is one typed update to a single filter field. Each field
// has its own variant carrying a statically-typed value.
type FilterUpdate interface {
	apply(*FilterState)
}

// CategoryUpdate sets the category constraint; empty means unconstrained
type CategoryUpdate string

// PriceRangeUpdate sets the price bounds. Negative bounds floor at zero
// and an inverted pair is swapped, keeping min <= max at all times.
type PriceRangeUpdate struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MinRatingUpdate sets the rating floor, clamped to [0, 5]
type MinRatingUpdate float64

// SearchQueryUpdate sets the free-text search term; empty means none
type SearchQueryUpdate string

func (u CategoryUpdate) apply(f *FilterState) {
	f.Category = string(u)
}

func (u PriceRangeUpdate) apply(f *FilterState) {
	min, max := u.Min, u.Max
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if min > max {
		min, max = max, min
	}
	f.PriceMin = min
	f.PriceMax = max
}

func (u MinRatingUpdate) apply(f *FilterState) {
	rating := float64(u)
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	f.MinRating = rating
}

func (u SearchQueryUpdate) apply(f *FilterState) {
	f.SearchQuery = string(u)
}

// Apply applies one typed field update
func (f *FilterState) Apply(update FilterUpdate) {
	update.apply(f)
}

// Reset restores the fixed defaults
func (f *FilterState) Reset() {
	*f = DefaultFilters()
}

// HasActiveFilters reports whether any field differs from the defaults
func (f *FilterState) HasActiveFilters() bool {
	return *f != DefaultFilters()
}

// Matches applies the client-side predicates (category, price bounds,
// rating floor). The search term is not checked here: it is the one
// constraint sent to the catalog server-side.
func (f *FilterState) Matches(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if p.Price < f.PriceMin || p.Price > f.PriceMax {
		return false
	}
	if p.Rating < f.MinRating {
		return false
	}
	return true
}
