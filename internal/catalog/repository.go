package catalog

import (
	"context"
	"errors"

	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Filter narrows a product listing. Nil means "no constraint". Featured
// only takes effect when explicitly true; a false value is the same as
// absent and adds no filter.
type Filter struct {
	Category *string
	Featured *bool
}

// ProductRepository is the storefront's view of the product store.
// Consumers define this interface, not the SQL implementation.
type ProductRepository interface {
	ListProducts(ctx context.Context, filter Filter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.NewProduct) (*domain.Product, error)
}
