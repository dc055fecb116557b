package checkout

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fruitika/storefront-api/cart"
	"github.com/shopspring/decimal"
)

// Pricing is the one place order totals are computed. The cart page, the
// checkout quote and the stored order all go through Quote.
type Pricing struct {
	Shipping decimal.Decimal // flat, per order
	TaxRate  decimal.Decimal // fraction of the subtotal, 0.10 = 10%
	Currency string
}

// NewPricing parses the configured shipping fee and tax rate.
func NewPricing(shipping, taxRate, currency string) (Pricing, error) {
	s, err := decimal.NewFromString(shipping)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid shipping fee %q: %w", shipping, err)
	}
	r, err := decimal.NewFromString(taxRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid tax rate %q: %w", taxRate, err)
	}
	if s.IsNegative() || r.IsNegative() {
		return Pricing{}, fmt.Errorf("shipping and tax rate must not be negative")
	}
	if currency == "" {
		currency = "INR"
	}
	return Pricing{Shipping: s, TaxRate: r, Currency: strings.ToUpper(currency)}, nil
}

type Breakdown struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Quote prices a set of cart lines. An empty cart owes nothing, shipping
// included.
func (p Pricing) Quote(lines []cart.Line) Breakdown {
	if len(lines) == 0 {
		return Breakdown{}
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(p.TaxRate).Round(2)
	return Breakdown{
		Subtotal: subtotal,
		Shipping: p.Shipping,
		Tax:      tax,
		Total:    subtotal.Add(p.Shipping).Add(tax),
	}
}

// TotalMinor is the total in the currency's minor unit (paise, cents), the
// form payment gateways charge in.
func (b Breakdown) TotalMinor() int64 {
	return b.Total.Shift(2).Round(0).IntPart()
}

// MarshalJSON renders amounts as fixed two-decimal numbers.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal json.Number `json:"subtotal"`
		Shipping json.Number `json:"shipping"`
		Tax      json.Number `json:"tax"`
		Total    json.Number `json:"total"`
	}{
		Subtotal: json.Number(b.Subtotal.StringFixed(2)),
		Shipping: json.Number(b.Shipping.StringFixed(2)),
		Tax:      json.Number(b.Tax.StringFixed(2)),
		Total:    json.Number(b.Total.StringFixed(2)),
	})
}
