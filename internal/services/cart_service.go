package services

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"shopnow/internal/models"
)

// CartService holds one cart per active session. Carts live for the
// process lifetime only; a restart yields empty carts.
type CartService struct {
	mu     sync.RWMutex
	carts  map[string][]models.CartItem         // session_id -> ordered lines
	subs   map[string]map[int]func(models.CartEvent) // session_id -> subscriber_id -> callback
	nextID int
	logger *zap.Logger
}

func NewCartService(logger *zap.Logger) *CartService {
	return &CartService{
		carts:  make(map[string][]models.CartItem),
		subs:   make(map[string]map[int]func(models.CartEvent)),
		logger: logger,
	}
}

// AddToCart merges the product into the session's cart: first add creates
// a line with quantity 1, a repeat add bumps the existing line's quantity
// without moving it. Never fails.
func (s *CartService) AddToCart(sessionID string, product models.Product) models.CartEvent {
	s.mu.Lock()

	lines := s.carts[sessionID]
	merged := false
	for i, line := range lines {
		if line.ID == product.ID {
			lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, models.CartItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.Image,
			Quantity: 1,
		})
	}
	s.carts[sessionID] = lines

	event := models.CartEvent{
		SessionID: sessionID,
		Type:      models.CartItemAdded,
		ProductID: product.ID,
		Message:   fmt.Sprintf("%s added to cart", product.Name),
		Summary:   summarize(lines),
	}
	s.mu.Unlock()

	s.logger.Debug("item added to cart",
		zap.String("session_id", sessionID),
		zap.Int("product_id", product.ID),
	)
	s.notify(event)
	return event
}

// SetQuantity replaces a line's quantity, clamped to a minimum of 1.
// Quantity can never reach zero through this path; removal is a distinct
// operation. Unknown product ids are silently ignored.
func (s *CartService) SetQuantity(sessionID string, productID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	lines := s.carts[sessionID]
	found := false
	for i, line := range lines {
		if line.ID == productID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}

	event := models.CartEvent{
		SessionID: sessionID,
		Type:      models.CartQuantitySet,
		ProductID: productID,
		Summary:   summarize(lines),
	}
	s.mu.Unlock()

	s.logger.Debug("cart quantity set",
		zap.String("session_id", sessionID),
		zap.Int("product_id", productID),
		zap.Int("quantity", quantity),
	)
	s.notify(event)
}

// RemoveItem deletes the line for the given product id, preserving the
// order of the remaining lines. No-op if the id is absent.
func (s *CartService) RemoveItem(sessionID string, productID int) {
	s.mu.Lock()
	lines := s.carts[sessionID]
	idx := -1
	for i, line := range lines {
		if line.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	lines = append(lines[:idx], lines[idx+1:]...)
	s.carts[sessionID] = lines

	event := models.CartEvent{
		SessionID: sessionID,
		Type:      models.CartItemRemoved,
		ProductID: productID,
		Message:   "Item removed from cart",
		Summary:   summarize(lines),
	}
	s.mu.Unlock()

	s.logger.Debug("item removed from cart",
		zap.String("session_id", sessionID),
		zap.Int("product_id", productID),
	)
	s.notify(event)
}

// GetLines returns a snapshot of the session's cart in insertion order.
func (s *CartService) GetLines(sessionID string) []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]models.CartItem, len(s.carts[sessionID]))
	copy(lines, s.carts[sessionID])
	return lines
}

// GetSummary recomputes the item count and running total from current
// state on every call.
func (s *CartService) GetSummary(sessionID string) models.CartSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return summarize(s.carts[sessionID])
}

// Subscribe registers a change callback for one session. The returned
// function unsubscribes. Callbacks run outside the store's lock and must
// re-query GetLines/GetSummary rather than retain cart state.
func (s *CartService) Subscribe(sessionID string, fn func(models.CartEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[sessionID] == nil {
		s.subs[sessionID] = make(map[int]func(models.CartEvent))
	}
	s.nextID++
	id := s.nextID
	s.subs[sessionID][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[sessionID], id)
		if len(s.subs[sessionID]) == 0 {
			delete(s.subs, sessionID)
		}
	}
}

func (s *CartService) notify(event models.CartEvent) {
	s.mu.RLock()
	callbacks := make([]func(models.CartEvent), 0, len(s.subs[event.SessionID]))
	for _, fn := range s.subs[event.SessionID] {
		callbacks = append(callbacks, fn)
	}
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn(event)
	}
}

func summarize(lines []models.CartItem) models.CartSummary {
	var summary models.CartSummary
	for _, line := range lines {
		summary.ItemCount += line.Quantity
		summary.Total += line.Price * float64(line.Quantity)
	}
	return summary
}
