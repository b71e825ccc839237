package pricing

import (
	"errors"
	"fmt"
)

// Defaults for the storefront. Orders over the threshold ship free,
// everything else pays the flat fee.
const (
	DefaultFreeShippingThreshold = 50.00
	DefaultShippingFee           = 9.99
	DefaultTaxRate               = 0.08
)

var ErrInvalidLineItem = errors.New("invalid line item")

// Line is a cart line resolved against the catalog: the product's unit
// price plus the quantity in the cart.
type Line struct {
	ProductID int64
	UnitPrice float64
	Quantity  int
}

// Totals holds the derived cart aggregates. Values are not rounded;
// rounding to two decimals happens at display time only.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type Calculator struct {
	FreeShippingThreshold float64
	ShippingFee           float64
	TaxRate               float64
}

func NewCalculator() Calculator {
	return Calculator{
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		ShippingFee:           DefaultShippingFee,
		TaxRate:               DefaultTaxRate,
	}
}

// Totals computes subtotal, shipping, tax and total for the given lines.
// A negative unit price or non-positive quantity is a contract violation
// on the caller and fails the whole computation.
func (c Calculator) Totals(lines []Line) (Totals, error) {
	var subtotal float64
	for _, l := range lines {
		if l.UnitPrice < 0 {
			return Totals{}, fmt.Errorf("%w: product %d has negative price %v", ErrInvalidLineItem, l.ProductID, l.UnitPrice)
		}
		if l.Quantity <= 0 {
			return Totals{}, fmt.Errorf("%w: product %d has non-positive quantity %d", ErrInvalidLineItem, l.ProductID, l.Quantity)
		}
		subtotal += l.UnitPrice * float64(l.Quantity)
	}

	shipping := c.ShippingFee
	if subtotal > c.FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * c.TaxRate

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}, nil
}
