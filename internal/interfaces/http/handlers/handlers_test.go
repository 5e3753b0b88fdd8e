package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

const testSecret = "handlers-test-secret-key-0123456789"

// fakeStore is an in-memory cart document store
type fakeStore struct {
	mu    sync.Mutex
	snaps map[string]*cart.Snapshot
}

func newFakeStore() *fakeStore {
	return &fakeStore{snaps: make(map[string]*cart.Snapshot)}
}

func (s *fakeStore) Load(_ context.Context, uid string) (*cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[uid]
	if !ok {
		return nil, cart.ErrSnapshotNotFound
	}
	cp := *snap
	return &cp, nil
}

func (s *fakeStore) Save(_ context.Context, uid string, snap *cart.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	s.snaps[uid] = &cp
	return nil
}

// fakeCatalog is a minimal upstream catalog for handler tests
func fakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		products := make([]catalog.Product, 12)
		for i := range products {
			products[i] = catalog.Product{
				ID:       i + 1,
				Title:    "Product",
				Category: "beauty",
				Price:    float64((i + 1) * 10),
				Rating:   4,
				Stock:    5,
			}
		}
		json.NewEncoder(w).Encode(catalog.Page{Products: products, Total: 24, Skip: 0, Limit: 12})
	})
	mux.HandleFunc("/products/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(catalog.Page{Total: 0})
	})
	mux.HandleFunc("/products/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(catalog.Product{ID: 7, Title: "Chanel Coco Noir", Price: 129.99})
	})
	mux.HandleFunc("/products/9999", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/products/category/beauty", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(catalog.Page{
			Products: []catalog.Product{{ID: 1, Title: "Essence Mascara", Category: "beauty"}},
			Total:    1,
			Limit:    12,
		})
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]catalog.Category{{Slug: "beauty", Name: "Beauty"}})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type harness struct {
	router *gin.Engine
	store  *fakeStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithCatalog(t, fakeCatalog(t).URL)
}

func newHarnessWithCatalog(t *testing.T, catalogURL string) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Catalog.BaseURL = catalogURL
	cfg.Catalog.PageSize = 12
	cfg.Catalog.StockRefreshInterval = time.Minute
	cfg.CartStore.LocalDir = t.TempDir()
	cfg.Session.TTL = time.Hour
	cfg.Session.SweepInterval = time.Minute

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := newFakeStore()
	client := catalog.NewClient(cfg, logger)
	registry := session.NewRegistry(session.Deps{
		Config:   cfg,
		Store:    store,
		Verifier: auth.NewVerifier(cfg),
		Catalog:  client,
		Logger:   logger,
	})
	t.Cleanup(registry.Close)

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(middleware.Session())

	authHandler := NewAuthHandler(registry)
	group.GET("/auth/session", authHandler.GetIdentity)
	group.POST("/auth/session", authHandler.SignIn)
	group.DELETE("/auth/session", authHandler.SignOut)

	cartHandler := NewCartHandler(registry)
	group.GET("/cart", cartHandler.GetCart)
	group.DELETE("/cart", cartHandler.ClearCart)
	group.POST("/cart/items", cartHandler.AddItem)
	group.PUT("/cart/items/:id", cartHandler.UpdateItem)
	group.DELETE("/cart/items/:id", cartHandler.RemoveItem)

	catalogHandler := NewCatalogHandler(registry, client)
	group.GET("/catalog", catalogHandler.GetView)
	group.POST("/catalog/more", catalogHandler.LoadMore)
	group.PUT("/catalog/filters", catalogHandler.UpdateFilter)
	group.DELETE("/catalog/filters", catalogHandler.ResetFilters)
	group.GET("/catalog/products/:id", catalogHandler.GetProduct)
	group.GET("/catalog/categories", catalogHandler.GetCategories)
	group.GET("/catalog/categories/:slug/products", catalogHandler.GetCategory)

	return &harness{router: router, store: store}
}

func (h *harness) do(t *testing.T, method, path, sessionID string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func mintToken(t *testing.T, uid string) string {
	t.Helper()

	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestSessionMiddleware_MintsSessionID(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/api/v1/cart", "", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	minted := w.Header().Get(middleware.SessionHeader)
	_, err := uuid.Parse(minted)
	assert.NoError(t, err)
}

func TestSessionMiddleware_RejectsMalformedID(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/api/v1/cart", "not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_AddAndGet(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodPost, "/api/v1/cart/items", sid, AddLineRequest{
		ProductID: 7,
		Title:     "Chanel Coco Noir",
		UnitPrice: 129.99,
		Quantity:  2,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodGet, "/api/v1/cart", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, float64(2), data["total_items"])
	assert.InDelta(t, 259.98, data["total_price"], 1e-9)
}

func TestCart_AddRejectsInvalidPayload(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	// Quantity missing
	w := h.do(t, http.MethodPost, "/api/v1/cart/items", sid, map[string]interface{}{
		"product_id": 7,
		"title":      "Chanel Coco Noir",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_UpdateQuantityClampsToOne(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	h.do(t, http.MethodPost, "/api/v1/cart/items", sid, AddLineRequest{
		ProductID: 7, Title: "Chanel Coco Noir", UnitPrice: 10, Quantity: 3,
	}, nil)

	w := h.do(t, http.MethodPut, "/api/v1/cart/items/7", sid, UpdateQuantityRequest{Quantity: 0}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, float64(1), data["total_items"])
}

func TestCart_RemoveAndClear(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	h.do(t, http.MethodPost, "/api/v1/cart/items", sid, AddLineRequest{
		ProductID: 1, Title: "A", UnitPrice: 5, Quantity: 1,
	}, nil)
	h.do(t, http.MethodPost, "/api/v1/cart/items", sid, AddLineRequest{
		ProductID: 2, Title: "B", UnitPrice: 5, Quantity: 1,
	}, nil)

	w := h.do(t, http.MethodDelete, "/api/v1/cart/items/1", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeData(t, w)["total_items"])

	w = h.do(t, http.MethodDelete, "/api/v1/cart", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeData(t, w)["total_items"])
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	h := newHarness(t)
	first := uuid.New().String()
	second := uuid.New().String()

	h.do(t, http.MethodPost, "/api/v1/cart/items", first, AddLineRequest{
		ProductID: 1, Title: "A", UnitPrice: 5, Quantity: 2,
	}, nil)

	w := h.do(t, http.MethodGet, "/api/v1/cart", second, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeData(t, w)["total_items"])
}

func TestAuth_SignInRequiresBearerToken(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodPost, "/api/v1/auth/session", sid, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/auth/session", sid, nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SignInSignOutFlow(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodGet, "/api/v1/auth/session", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeData(t, w)["signed_in"])

	w = h.do(t, http.MethodPost, "/api/v1/auth/session", sid, nil, map[string]string{
		"Authorization": "Bearer " + mintToken(t, "u1"),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decodeData(t, w)["uid"])

	w = h.do(t, http.MethodGet, "/api/v1/auth/session", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeData(t, w)["signed_in"])

	w = h.do(t, http.MethodDelete, "/api/v1/auth/session", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodGet, "/api/v1/auth/session", sid, nil, nil)
	assert.Equal(t, false, decodeData(t, w)["signed_in"])
}

func TestAuth_SignOutEmptiesCartImmediately(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodPost, "/api/v1/auth/session", sid, nil, map[string]string{
		"Authorization": "Bearer " + mintToken(t, "u1"),
	})
	require.Equal(t, http.StatusOK, w.Code)

	h.do(t, http.MethodPost, "/api/v1/cart/items", sid, AddLineRequest{
		ProductID: 1, Title: "A", UnitPrice: 5, Quantity: 2,
	}, nil)

	h.do(t, http.MethodDelete, "/api/v1/auth/session", sid, nil, nil)

	w = h.do(t, http.MethodGet, "/api/v1/cart", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeData(t, w)["total_items"])
}

func TestCatalog_FirstViewLoadsFirstPage(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodGet, "/api/v1/catalog", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "loaded", data["state"])
	assert.Equal(t, float64(24), data["total"])
	assert.Equal(t, float64(12), data["fetched_count"])
	assert.Equal(t, true, data["has_more"])
}

func TestCatalog_ViewRetriesAfterUpstreamFailure(t *testing.T) {
	working := fakeCatalog(t)
	var fail atomic.Bool
	fail.Store(true)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		resp, err := http.Get(working.URL + r.URL.RequestURI())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		w.WriteHeader(resp.StatusCode)
		io.Copy(w, resp.Body)
	}))
	t.Cleanup(upstream.Close)

	h := newHarnessWithCatalog(t, upstream.URL)
	sid := uuid.New().String()

	w := h.do(t, http.MethodGet, "/api/v1/catalog", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", decodeData(t, w)["state"])

	// The catalog comes back; a fresh GET re-triggers the fetch
	fail.Store(false)
	w = h.do(t, http.MethodGet, "/api/v1/catalog", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "loaded", data["state"])
	assert.Equal(t, float64(12), data["fetched_count"])
}

func TestCatalog_FilterUpdateVariants(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	h.do(t, http.MethodGet, "/api/v1/catalog", sid, nil, nil)

	priceMin, priceMax := 20.0, 50.0
	w := h.do(t, http.MethodPut, "/api/v1/catalog/filters", sid, map[string]interface{}{
		"field":       "price_range",
		"price_range": map[string]float64{"min": priceMin, "max": priceMax},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	products := data["products"].([]interface{})
	assert.Len(t, products, 4, "prices 20..50 in steps of 10")
	assert.Equal(t, float64(12), data["fetched_count"])
}

func TestCatalog_FilterUpdateRejectsUnknownField(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodPut, "/api/v1/catalog/filters", sid, map[string]interface{}{
		"field": "brand",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog_FilterUpdateRejectsMissingValue(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodPut, "/api/v1/catalog/filters", sid, map[string]interface{}{
		"field": "category",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog_ResetFilters(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	h.do(t, http.MethodGet, "/api/v1/catalog", sid, nil, nil)
	h.do(t, http.MethodPut, "/api/v1/catalog/filters", sid, map[string]interface{}{
		"field":      "min_rating",
		"min_rating": 5,
	}, nil)

	w := h.do(t, http.MethodDelete, "/api/v1/catalog/filters", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	products := data["products"].([]interface{})
	assert.Len(t, products, 12)
}

func TestCatalog_GetProduct(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodGet, "/api/v1/catalog/products/7", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), decodeData(t, w)["id"])

	w = h.do(t, http.MethodGet, "/api/v1/catalog/products/9999", sid, nil, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = h.do(t, http.MethodGet, "/api/v1/catalog/products/abc", sid, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog_GetCategoryListing(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodGet, "/api/v1/catalog/categories/beauty/products", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, float64(1), data["total"])

	w = h.do(t, http.MethodGet, "/api/v1/catalog/categories/beauty/products?limit=0", sid, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog_GetCategories(t *testing.T) {
	h := newHarness(t)
	sid := uuid.New().String()

	w := h.do(t, http.MethodGet, "/api/v1/catalog/categories", sid, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []catalog.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "beauty", envelope.Data[0].Slug)
}
