package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"shopnow/internal/models"
	"shopnow/internal/services"
)

type CartHandler struct {
	cartService    *services.CartService
	catalogService *services.CatalogService
}

func NewCartHandler(cartService *services.CartService, catalogService *services.CatalogService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalogService,
	}
}

// GET /api/cart
// Lines in insertion order plus the recomputed summary.
func (h *CartHandler) GetCart(c *gin.Context) {
	session := sessionID(c)

	lines := h.cartService.GetLines(session)
	summary := h.cartService.GetSummary(session)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"items":         lines,
			"item_count":    summary.ItemCount,
			"total":         summary.Total,
			"display_total": summary.DisplayTotal(),
		},
	})
}

// POST /api/cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	session := sessionID(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, exists := h.catalogService.GetProductByID(req.ProductID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	event := h.cartService.AddToCart(session, product)

	c.JSON(http.StatusOK, gin.H{
		"message": event.Message,
		"data": gin.H{
			"items":   h.cartService.GetLines(session),
			"summary": event.Summary,
		},
	})
}

// PUT /api/cart/items/:product_id
// Quantities below 1 are clamped, never rejected; unknown ids are a
// silent no-op by design.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	session := sessionID(c)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.cartService.SetQuantity(session, productID, req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"items":   h.cartService.GetLines(session),
			"summary": h.cartService.GetSummary(session),
		},
	})
}

// DELETE /api/cart/items/:product_id
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	session := sessionID(c)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	h.cartService.RemoveItem(session, productID)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"items":   h.cartService.GetLines(session),
			"summary": h.cartService.GetSummary(session),
		},
	})
}

// GET /api/cart/events
// SSE change feed: one event per effective cart mutation for this
// session. Consumers re-query the cart on each event.
func (h *CartHandler) StreamCartEvents(c *gin.Context) {
	session := sessionID(c)

	events := make(chan models.CartEvent, 16)
	unsubscribe := h.cartService.Subscribe(session, func(event models.CartEvent) {
		// Drop instead of blocking the mutation path on a slow client.
		select {
		case events <- event:
		default:
		}
	})
	defer unsubscribe()

	// The stream stays open until the client leaves, so the server-wide
	// write timeout must not apply here. The deadline is per-connection;
	// clearing it affects only this stream.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	// Flush the status and headers immediately so the subscriber sees the
	// response before the first mutation happens.
	c.Writer.Header().Set("Content-Type", sse.ContentType)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-events:
			sse.Encode(w, sse.Event{
				Event: string(event.Type),
				Data:  event,
			})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
