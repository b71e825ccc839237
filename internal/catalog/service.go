package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrQueryFailed    = errors.New("product query failed")
	ErrInsertFailed   = errors.New("product insert failed")
	ErrInvalidProduct = errors.New("invalid product")
)

// Service exposes catalog reads and product creation over the repository.
// Store failures are wrapped in ErrQueryFailed/ErrInsertFailed so the
// boundary can classify them while keeping the store's own message.
type Service struct {
	repo   ProductRepository
	logger *zap.Logger
}

func NewService(repo ProductRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*domain.Product, error) {
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		s.logger.Error("product listing failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if errors.Is(err, ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("product fetch failed", zap.Int64("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return product, nil
}

// Create inserts a product after a minimal shape check: a non-empty name
// and a non-negative price. Everything else passes through as given.
func (s *Service) Create(ctx context.Context, np domain.NewProduct) (*domain.Product, error) {
	if strings.TrimSpace(np.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if np.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	product, err := s.repo.CreateProduct(ctx, np)
	if err != nil {
		s.logger.Error("product insert failed", zap.String("name", np.Name), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	s.logger.Info("product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}
