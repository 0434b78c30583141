package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopnow/internal/services"
)

type FavoritesHandler struct {
	favoritesService *services.FavoritesService
	catalogService   *services.CatalogService
}

func NewFavoritesHandler(favoritesService *services.FavoritesService, catalogService *services.CatalogService) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesService: favoritesService,
		catalogService:   catalogService,
	}
}

// GET /api/favorites
func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	session := sessionID(c)

	c.JSON(http.StatusOK, gin.H{
		"data": h.favoritesService.List(session),
	})
}

// POST /api/favorites/:product_id
func (h *FavoritesHandler) ToggleFavorite(c *gin.Context) {
	session := sessionID(c)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if _, exists := h.catalogService.GetProductByID(productID); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	favorite := h.favoritesService.Toggle(session, productID)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"product_id": productID,
			"favorite":   favorite,
		},
	})
}
