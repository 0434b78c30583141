package handlers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopnow/internal/models"
	"shopnow/internal/services"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	catalogService := services.NewCatalogService()
	catalogService.InitSampleData()
	cartService := services.NewCartService(zap.NewNop())
	favoritesService := services.NewFavoritesService()
	notificationService := services.NewNotificationService(
		services.NewStaticCapability(true, models.PermissionGranted),
		zap.NewNop(),
	)

	productHandler := NewProductHandler(catalogService)
	cartHandler := NewCartHandler(cartService, catalogService)
	notificationHandler := NewNotificationHandler(notificationService)
	favoritesHandler := NewFavoritesHandler(favoritesService, catalogService)

	router := gin.New()
	api := router.Group("/api")
	{
		api.GET("/products", productHandler.GetAllProducts)
		api.GET("/products/search", productHandler.SearchProducts)
		api.GET("/products/:id", productHandler.GetProductByID)
		api.GET("/cart", cartHandler.GetCart)
		api.GET("/cart/events", cartHandler.StreamCartEvents)
		api.POST("/cart/items", cartHandler.AddToCart)
		api.PUT("/cart/items/:product_id", cartHandler.UpdateCartItem)
		api.DELETE("/cart/items/:product_id", cartHandler.RemoveCartItem)
		api.GET("/notifications/prompt", notificationHandler.GetPrompt)
		api.POST("/notifications/request", notificationHandler.RequestPermission)
		api.POST("/notifications/dismiss", notificationHandler.DismissPrompt)
		api.GET("/favorites", favoritesHandler.GetFavorites)
		api.POST("/favorites/:product_id", favoritesHandler.ToggleFavorite)
	}
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, session, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func cartItems(body map[string]any) []any {
	data := body["data"].(map[string]any)
	return data["items"].([]any)
}

func TestCartFlow(t *testing.T) {
	router := newTestRouter()
	const session = "test-session"

	// Empty cart to start.
	w, body := doRequest(t, router, http.MethodGet, "/api/cart", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartItems(body))

	// Add the watch twice: one line, quantity 2.
	w, body = doRequest(t, router, http.MethodPost, "/api/cart/items", session, `{"product_id":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Smart Watch Pro added to cart", body["message"])

	w, _ = doRequest(t, router, http.MethodPost, "/api/cart/items", session, `{"product_id":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = doRequest(t, router, http.MethodGet, "/api/cart", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	items := cartItems(body)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, 2.0, line["quantity"])

	data := body["data"].(map[string]any)
	assert.Equal(t, 2.0, data["item_count"])
	assert.Equal(t, 898.0, data["total"])
	assert.Equal(t, "898.00", data["display_total"])

	// Quantity 0 clamps to 1 instead of removing the line.
	w, body = doRequest(t, router, http.MethodPut, "/api/cart/items/2", session, `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	items = cartItems(body)
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, items[0].(map[string]any)["quantity"])

	// Remove empties the cart.
	w, body = doRequest(t, router, http.MethodDelete, "/api/cart/items/2", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartItems(body))
}

func TestAddUnknownProduct(t *testing.T) {
	router := newTestRouter()

	w, body := doRequest(t, router, http.MethodPost, "/api/cart/items", "s1", `{"product_id":999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", body["error"])
}

func TestUpdateUnknownProductIsNoOp(t *testing.T) {
	router := newTestRouter()
	const session = "s1"

	doRequest(t, router, http.MethodPost, "/api/cart/items", session, `{"product_id":1}`)

	w, body := doRequest(t, router, http.MethodPut, "/api/cart/items/999", session, `{"quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	items := cartItems(body)
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, items[0].(map[string]any)["quantity"])
}

func TestCartSessionIsolation(t *testing.T) {
	router := newTestRouter()

	doRequest(t, router, http.MethodPost, "/api/cart/items", "alice", `{"product_id":1}`)

	_, body := doRequest(t, router, http.MethodGet, "/api/cart", "bob", "")
	assert.Empty(t, cartItems(body))
}

func TestSessionIssuedWhenAbsent(t *testing.T) {
	router := newTestRouter()

	w, _ := doRequest(t, router, http.MethodGet, "/api/cart", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Session-ID"))
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter()

	w, body := doRequest(t, router, http.MethodGet, "/api/products/search?q=watch", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	results := body["data"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "Smart Watch Pro", results[0].(map[string]any)["name"])

	w, body = doRequest(t, router, http.MethodGet, "/api/products/search?q=zzz", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "zzz", meta["query"])
}

// The change feed must ignore the server-wide write timeout: a stream is
// open for the whole session and mutations can arrive at any time.
func TestStreamCartEvents(t *testing.T) {
	router := newTestRouter()

	server := httptest.NewUnstartedServer(router)
	server.Config.WriteTimeout = 250 * time.Millisecond
	server.Start()
	defer server.Close()

	const session = "stream-session"

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/cart/events", nil)
	require.NoError(t, err)
	req.Header.Set("X-Session-ID", session)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Status and headers arrive on subscribe, before any mutation exists
	// to flush them.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	// Outlive the server's write timeout, then mutate.
	time.Sleep(500 * time.Millisecond)

	addReq, err := http.NewRequest(http.MethodPost, server.URL+"/api/cart/items", strings.NewReader(`{"product_id":2}`))
	require.NoError(t, err)
	addReq.Header.Set("Content-Type", "application/json")
	addReq.Header.Set("X-Session-ID", session)

	addResp, err := server.Client().Do(addReq)
	require.NoError(t, err)
	addResp.Body.Close()
	require.Equal(t, http.StatusOK, addResp.StatusCode)

	dataLines := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if strings.HasPrefix(scanner.Text(), "data:") {
				dataLines <- scanner.Text()
				return
			}
		}
		done <- scanner.Err()
	}()

	select {
	case line := <-dataLines:
		assert.Contains(t, line, "Smart Watch Pro added to cart")
	case err := <-done:
		t.Fatalf("stream ended before delivering the event: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cart event")
	}
}

func TestNotificationEndpoints(t *testing.T) {
	router := newTestRouter()
	const session = "s1"

	_, body := doRequest(t, router, http.MethodGet, "/api/notifications/prompt", session, "")
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["visible"])

	_, body = doRequest(t, router, http.MethodPost, "/api/notifications/request", session, "")
	data = body["data"].(map[string]any)
	assert.Equal(t, "granted", data["outcome"])

	_, body = doRequest(t, router, http.MethodGet, "/api/notifications/prompt", session, "")
	data = body["data"].(map[string]any)
	assert.Equal(t, false, data["visible"])
	assert.Equal(t, "granted", data["permission"])
}

func TestFavoritesEndpoints(t *testing.T) {
	router := newTestRouter()
	const session = "s1"

	w, body := doRequest(t, router, http.MethodPost, "/api/favorites/3", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["favorite"])

	w, _ = doRequest(t, router, http.MethodPost, "/api/favorites/999", session, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, body = doRequest(t, router, http.MethodGet, "/api/favorites", session, "")
	assert.Equal(t, []any{3.0}, body["data"])
}
