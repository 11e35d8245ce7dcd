package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// Line is one cart entry. The product snapshot is the one handed to Add; the
// checkout path re-validates against live stock.
type Line struct {
	Product  models.Product
	Quantity int
}

// Store keeps per-user carts in process memory. Carts are not persisted and
// do not survive a restart.
type Store struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]Line
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{carts: map[uuid.UUID][]Line{}}
}

// Lines returns a copy of the user's cart in insertion order.
func (s *Store) Lines(userID uuid.UUID) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.carts[userID])
}

// Upsert increments the product's line or appends a new one with quantity 1.
func (s *Store) Upsert(userID uuid.UUID, product models.Product) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Quantity++
			lines[i].Product = product
			s.carts[userID] = lines
			return cloneLines(lines)
		}
	}
	lines = append(lines, Line{Product: product, Quantity: 1})
	s.carts[userID] = lines
	return cloneLines(lines)
}

// Quantity reports the current quantity of the product in the user's cart.
func (s *Store) Quantity(userID, productID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.carts[userID] {
		if line.Product.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Remove decrements the product's line, dropping it entirely when removeAll
// is set or only one unit remains.
func (s *Store) Remove(userID, productID uuid.UUID, removeAll bool) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].Product.ID != productID {
			continue
		}
		if removeAll || lines[i].Quantity == 1 {
			lines = append(lines[:i], lines[i+1:]...)
		} else {
			lines[i].Quantity--
		}
		s.carts[userID] = lines
		break
	}
	return cloneLines(s.carts[userID])
}

// Clear empties the user's cart.
func (s *Store) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
