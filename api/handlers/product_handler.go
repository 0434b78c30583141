package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopnow/internal/services"
)

type ProductHandler struct {
	catalogService *services.CatalogService
}

func NewProductHandler(catalogService *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

// GET /api/products
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	products := h.catalogService.GetAllProducts()

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"meta": gin.H{
			"total": len(products),
		},
	})
}

// GET /api/products/:id
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, exists := h.catalogService.GetProductByID(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": product,
	})
}

// GET /api/products/search?q=
// Empty q returns the full catalog; no results is a 200 with an empty
// list, the caller renders its own "no products found" state.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	products := h.catalogService.SearchProducts(query)

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"meta": gin.H{
			"total": len(products),
			"query": query,
		},
	})
}

// GET /api/health
func (h *ProductHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
