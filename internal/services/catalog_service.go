package services

import (
	"strings"
	"sync"

	"shopnow/internal/models"
)

type CatalogService struct {
	mu       sync.RWMutex
	products []models.Product // catalog order, fixed after seeding
}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

func (s *CatalogService) InitSampleData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = []models.Product{
		{ID: 1, Name: "Premium Wireless Headphones", Price: 299, Image: "/assets/product-1.jpg"},
		{ID: 2, Name: "Smart Watch Pro", Price: 449, Image: "/assets/product-2.jpg"},
		{ID: 3, Name: "Designer Sunglasses", Price: 189, Image: "/assets/product-3.jpg"},
		{ID: 4, Name: "Leather Backpack", Price: 159, Image: "/assets/product-4.jpg"},
	}
}

// Get all products in catalog order
func (s *CatalogService) GetAllProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products
}

// Get product by ID
func (s *CatalogService) GetProductByID(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, product := range s.products {
		if product.ID == id {
			return product, true
		}
	}
	return models.Product{}, false
}

// Search products by case-insensitive substring match on name.
// An empty query matches everything; result order equals catalog order.
func (s *CatalogService) SearchProducts(query string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	results := []models.Product{}
	for _, product := range s.products {
		if q == "" || strings.Contains(strings.ToLower(product.Name), q) {
			results = append(results, product)
		}
	}
	return results
}
