// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	registry *session.Registry
}

// NewCartHandler creates a new cart handler
func NewCartHandler(registry *session.Registry) *CartHandler {
	return &CartHandler{
		registry: registry,
	}
}

// AddLineRequest represents an add-to-cart request. The caller is
// responsible for stock validation before adding; the reducer accepts
// the line as given.
type AddLineRequest struct {
	ProductID       int     `json:"product_id" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	UnitPrice       float64 `json:"unit_price" binding:"gte=0"`
	Thumbnail       string  `json:"thumbnail"`
	Quantity        int     `json:"quantity" binding:"required,min=1"`
	AvailableStock  int     `json:"available_stock" binding:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" binding:"gte=0,lt=100"`
}

// UpdateQuantityRequest represents a quantity update. Non-positive
// values are clamped to 1 by the reducer, not rejected here.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": s.Cart.Cart(),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated := s.Cart.AddItem(cart.Line{
		ProductID:       req.ProductID,
		Title:           req.Title,
		UnitPrice:       req.UnitPrice,
		Thumbnail:       req.Thumbnail,
		Quantity:        req.Quantity,
		AvailableStock:  req.AvailableStock,
		DiscountPercent: req.DiscountPercent,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    updated,
	})
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated := s.Cart.UpdateQuantity(productID, req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
		"data":    updated,
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	updated := s.Cart.RemoveItem(productID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    updated,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	updated := s.Cart.Clear()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"data":    updated,
	})
}

func (h *CartHandler) session(c *gin.Context) (*session.Session, bool) {
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Session not resolved",
		})
		return nil, false
	}
	return h.registry.Get(sessionID), true
}
