package domain

import "time"

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Category    string
	IsActive    bool
	IsFeatured  bool
	CreatedAt   time.Time
}

// NewProduct is the shape accepted by the create operation. The store
// assigns ID and CreatedAt.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Category    string
	IsActive    bool
	IsFeatured  bool
}
