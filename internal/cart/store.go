package cart

import (
	"sync"
	"time"

	"github.com/AliCapone21/nonkabob-guliston/internal/products"
)

// Item is one cart line: the product snapshot plus its quantity.
type Item struct {
	Product  products.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

// Store holds one session's cart. Entries keep insertion order and at
// most one line exists per product id.
type Store struct {
	mu      sync.Mutex
	items   []Item
	touched time.Time
}

// NewStore builds an empty cart.
func NewStore() *Store {
	return &Store{touched: time.Now()}
}

// Add inserts the product with quantity 1 or bumps an existing line.
func (s *Store) Add(product products.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: 1})
}

// Remove decrements the line or deletes it at quantity one. Removing an
// absent product is a no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	for i := range s.items {
		if s.items[i].Product.ID != productID {
			continue
		}
		if s.items[i].Quantity > 1 {
			s.items[i].Quantity--
			return
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return
	}
}

// Count returns the quantity for the product, zero when absent.
func (s *Store) Count(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Items returns a snapshot copy of the cart lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalPrice derives the sum of price times quantity. Never stored.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, item := range s.items {
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// Clear runs one decrement per line: quantity one lines disappear,
// larger lines lose a single unit.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.Quantity > 1 {
			item.Quantity--
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// ClearAll drops every line regardless of quantity.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.items = nil
}

// LastTouched reports the last mutation time for TTL sweeps.
func (s *Store) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Store) touch() {
	s.touched = time.Now()
}
