// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles catalog browsing endpoints
type CatalogHandler struct {
	registry *session.Registry
	client   *catalog.Client
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(registry *session.Registry, client *catalog.Client) *CatalogHandler {
	return &CatalogHandler{
		registry: registry,
		client:   client,
	}
}

// FilterUpdateRequest is the tagged update for one filter field. Exactly
// one value, matching the field tag, must be present.
type FilterUpdateRequest struct {
	Field       string                    `json:"field" binding:"required"`
	Category    *string                   `json:"category,omitempty"`
	PriceRange  *catalog.PriceRangeUpdate `json:"price_range,omitempty"`
	MinRating   *float64                  `json:"min_rating,omitempty"`
	SearchQuery *string                   `json:"search_query,omitempty"`
}

// toUpdate maps the wire shape onto the typed filter update variants
func (r *FilterUpdateRequest) toUpdate() (catalog.FilterUpdate, bool) {
	switch r.Field {
	case "category":
		if r.Category != nil {
			return catalog.CategoryUpdate(*r.Category), true
		}
	case "price_range":
		if r.PriceRange != nil {
			return *r.PriceRange, true
		}
	case "min_rating":
		if r.MinRating != nil {
			return catalog.MinRatingUpdate(*r.MinRating), true
		}
	case "search_query":
		if r.SearchQuery != nil {
			return catalog.SearchQueryUpdate(*r.SearchQuery), true
		}
	}
	return nil, false
}

// GetView handles GET /catalog. The first touch of an idle browser
// fetches the first page; a browser stuck in the error state is also
// reloaded, since an explicit GET is the user re-triggering the fetch.
func (h *CatalogHandler) GetView(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	view := s.Browser.View()
	if view.State == catalog.StateIdle || view.State == catalog.StateError {
		view = s.Browser.Load(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"data": view,
	})
}

// LoadMore handles POST /catalog/more
func (h *CatalogHandler) LoadMore(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	view := s.Browser.LoadMore(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"data": view,
	})
}

// UpdateFilter handles PUT /catalog/filters
func (h *CatalogHandler) UpdateFilter(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req FilterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	update, ok := req.toUpdate()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown filter field or missing value",
		})
		return
	}

	view := s.Browser.UpdateFilter(c.Request.Context(), update)

	c.JSON(http.StatusOK, gin.H{
		"data": view,
	})
}

// ResetFilters handles DELETE /catalog/filters
func (h *CatalogHandler) ResetFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	view := s.Browser.ResetFilters(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"data": view,
	})
}

// GetProduct handles GET /catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, err := h.client.Get(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": product,
	})
}

// GetCategory handles GET /catalog/categories/:slug
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid limit",
		})
		return
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid skip",
		})
		return
	}

	page, err := h.client.ByCategory(c.Request.Context(), c.Param("slug"), limit, skip)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch category listing",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": page,
	})
}

// GetCategories handles GET /catalog/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.client.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": categories,
	})
}

func (h *CatalogHandler) session(c *gin.Context) (*session.Session, bool) {
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Session not resolved",
		})
		return nil, false
	}
	return h.registry.Get(sessionID), true
}
