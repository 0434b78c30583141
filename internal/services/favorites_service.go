package services

import "sync"

// FavoritesService keeps a per-session set of favorited product ids in
// toggle order. Session-lifetime only, like the cart.
type FavoritesService struct {
	mu        sync.RWMutex
	favorites map[string][]int // session_id -> product ids
}

func NewFavoritesService() *FavoritesService {
	return &FavoritesService{
		favorites: make(map[string][]int),
	}
}

// Toggle flips membership and reports whether the product is now a
// favorite.
func (s *FavoritesService) Toggle(sessionID string, productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.favorites[sessionID]
	for i, id := range ids {
		if id == productID {
			s.favorites[sessionID] = append(ids[:i], ids[i+1:]...)
			return false
		}
	}
	s.favorites[sessionID] = append(ids, productID)
	return true
}

func (s *FavoritesService) List(sessionID string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, len(s.favorites[sessionID]))
	copy(ids, s.favorites[sessionID])
	return ids
}
