package cart

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidProductID = errors.New("product id is required")
	ErrInvalidName      = errors.New("product name is required")
	ErrInvalidPrice     = errors.New("unit price must be a finite, non-negative number")
)

// Item is a catalog entry that has passed validation and may be added to a
// cart. The zero value is not usable; build one with NewItem.
type Item struct {
	ProductID string
	Name      string
	UnitPrice float64
	Image     string
}

// NewItem validates the catalog tuple handed to the cart.
func NewItem(productID, name string, unitPrice float64, image string) (Item, error) {
	productID = strings.TrimSpace(productID)
	name = strings.TrimSpace(name)

	if productID == "" {
		return Item{}, ErrInvalidProductID
	}
	if name == "" {
		return Item{}, fmt.Errorf("product %s: %w", productID, ErrInvalidName)
	}
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) || unitPrice < 0 {
		return Item{}, fmt.Errorf("product %s: %w", productID, ErrInvalidPrice)
	}

	return Item{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Image:     image,
	}, nil
}
