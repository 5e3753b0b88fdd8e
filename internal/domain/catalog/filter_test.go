package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters()

	assert.Empty(t, f.Category)
	assert.Empty(t, f.SearchQuery)
	assert.Equal(t, float64(DefaultPriceMin), f.PriceMin)
	assert.Equal(t, float64(DefaultPriceMax), f.PriceMax)
	assert.Equal(t, float64(DefaultMinRating), f.MinRating)
	assert.False(t, f.HasActiveFilters())
}

func TestFilterState_ApplyVariants(t *testing.T) {
	f := DefaultFilters()

	f.Apply(CategoryUpdate("beauty"))
	assert.Equal(t, "beauty", f.Category)

	f.Apply(PriceRangeUpdate{Min: 10, Max: 50})
	assert.Equal(t, 10.0, f.PriceMin)
	assert.Equal(t, 50.0, f.PriceMax)

	f.Apply(MinRatingUpdate(4))
	assert.Equal(t, 4.0, f.MinRating)

	f.Apply(SearchQueryUpdate("phone"))
	assert.Equal(t, "phone", f.SearchQuery)

	assert.True(t, f.HasActiveFilters())
}

func TestPriceRangeUpdate_Normalization(t *testing.T) {
	tests := []struct {
		name    string
		update  PriceRangeUpdate
		wantMin float64
		wantMax float64
	}{
		{"negative min floors at zero", PriceRangeUpdate{Min: -10, Max: 100}, 0, 100},
		{"negative max floors at zero", PriceRangeUpdate{Min: -5, Max: -1}, 0, 0},
		{"inverted pair is swapped", PriceRangeUpdate{Min: 200, Max: 50}, 50, 200},
		{"equal bounds allowed", PriceRangeUpdate{Min: 30, Max: 30}, 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilters()
			f.Apply(tt.update)
			assert.Equal(t, tt.wantMin, f.PriceMin)
			assert.Equal(t, tt.wantMax, f.PriceMax)
		})
	}
}

func TestMinRatingUpdate_Clamps(t *testing.T) {
	f := DefaultFilters()

	f.Apply(MinRatingUpdate(-1))
	assert.Equal(t, 0.0, f.MinRating)

	f.Apply(MinRatingUpdate(9))
	assert.Equal(t, 5.0, f.MinRating)
}

func TestFilterState_Reset(t *testing.T) {
	f := DefaultFilters()
	f.Apply(CategoryUpdate("laptops"))
	f.Apply(MinRatingUpdate(3))
	f.Apply(SearchQueryUpdate("macbook"))

	f.Reset()

	assert.Equal(t, DefaultFilters(), f)
	assert.False(t, f.HasActiveFilters())
}

func TestFilterState_Matches(t *testing.T) {
	product := Product{
		ID:       1,
		Title:    "Test Product",
		Category: "beauty",
		Price:    25,
		Rating:   4.2,
	}

	tests := []struct {
		name  string
		setup func(f *FilterState)
		want  bool
	}{
		{"defaults match everything", func(f *FilterState) {}, true},
		{"matching category", func(f *FilterState) { f.Apply(CategoryUpdate("beauty")) }, true},
		{"other category", func(f *FilterState) { f.Apply(CategoryUpdate("laptops")) }, false},
		{"price inside bounds", func(f *FilterState) { f.Apply(PriceRangeUpdate{Min: 20, Max: 30}) }, true},
		{"price below min", func(f *FilterState) { f.Apply(PriceRangeUpdate{Min: 30, Max: 100}) }, false},
		{"price above max", func(f *FilterState) { f.Apply(PriceRangeUpdate{Min: 0, Max: 10}) }, false},
		{"rating at floor", func(f *FilterState) { f.Apply(MinRatingUpdate(4.2)) }, true},
		{"rating below floor", func(f *FilterState) { f.Apply(MinRatingUpdate(4.5)) }, false},
		{"search term does not filter locally", func(f *FilterState) { f.Apply(SearchQueryUpdate("unrelated")) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilters()
			tt.setup(&f)
			assert.Equal(t, tt.want, f.Matches(&product))
		})
	}
}
