package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// Store holds one session's cart contents. It keeps at most one line per
// product and never a quantity below one, so pricing can always run over
// its lines without error. A Store has a single owner; it is not safe for
// concurrent use.
type Store struct {
	items []domain.CartItem
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreFromSnapshot rebuilds a store from a persisted cart. Duplicate
// product entries in the snapshot are merged and non-positive quantities
// dropped, so a stale or hand-edited snapshot cannot poison the store.
func NewStoreFromSnapshot(c *domain.Cart) *Store {
	s := NewStore()
	if c == nil {
		return s
	}
	for _, item := range c.Items {
		if item.Quantity <= 0 {
			continue
		}
		if i := s.indexOf(item.ProductID); i >= 0 {
			s.items[i].Quantity += item.Quantity
			continue
		}
		s.items = append(s.items, item)
	}
	return s
}

// Add puts quantity units of the product into the cart, merging into the
// existing line if the product is already present.
func (s *Store) Add(productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if i := s.indexOf(productID); i >= 0 {
		s.items[i].Quantity += quantity
		return nil
	}
	s.items = append(s.items, domain.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
	return nil
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less
// removes the line rather than keeping a dead entry around.
func (s *Store) UpdateQuantity(productID int64, quantity int) error {
	i := s.indexOf(productID)
	if i < 0 {
		return fmt.Errorf("%w: product %d", ErrItemNotFound, productID)
	}
	if quantity <= 0 {
		s.removeAt(i)
		return nil
	}
	s.items[i].Quantity = quantity
	return nil
}

// Remove deletes the product's line. Removing an absent product is a
// no-op, not an error.
func (s *Store) Remove(productID int64) {
	if i := s.indexOf(productID); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) Clear() {
	s.items = nil
}

// ItemCount is the sum of quantities across all lines, not the number of
// distinct products.
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns the lines in insertion order. The slice is a copy.
func (s *Store) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Snapshot produces the persistable form of the cart for the session.
func (s *Store) Snapshot(sessionID string) *domain.Cart {
	return &domain.Cart{
		SessionID: sessionID,
		Items:     s.Items(),
	}
}

func (s *Store) indexOf(productID int64) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}
