package cart

import (
	"context"
	"errors"

	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Repository persists cart snapshots between requests. Writes are whole
// snapshots (last write wins); multi-tab conflicts resolve to whichever
// session saved last.
type Repository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
