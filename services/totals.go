package services

import (
	"github.com/shopspring/decimal"

	"adisyo-api/models"
)

var hundred = decimal.NewFromInt(100)

// RecomputeTotals derives Subtotal, TaxAmount and Total from the order's
// current items, tax rate and discount. Every stored amount is rounded to
// two decimals, and Total never drops below zero.
func RecomputeTotals(o *models.Order) {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(o.TaxRate)).Div(hundred).Round(2)
	total := subtotal.Add(tax).Sub(decimal.NewFromFloat(o.DiscountAmount))
	if total.IsNegative() {
		total = decimal.Zero
	}

	o.Subtotal = toMoney(subtotal)
	o.TaxAmount = toMoney(tax)
	o.Total = toMoney(total)
}

// ApplyDiscount sets DiscountAmount and DiscountType according to the
// discount policy. Totals must be current before the call; an empty or
// unknown discount type leaves the discount unchanged.
func ApplyDiscount(o *models.Order, discountType string, value float64) error {
	if value < 0 {
		return invalid("discount value must not be negative")
	}

	var amount decimal.Decimal
	switch discountType {
	case models.DiscountPercent:
		amount = decimal.NewFromFloat(o.Subtotal).Mul(decimal.NewFromFloat(value)).Div(hundred)
	case models.DiscountFixed:
		amount = decimal.NewFromFloat(value)
	case models.DiscountTreat:
		amount = decimal.NewFromFloat(o.Subtotal).Add(decimal.NewFromFloat(o.TaxAmount))
	default:
		return nil
	}

	t := discountType
	o.DiscountType = &t
	o.DiscountAmount = toMoney(amount.Round(2))
	return nil
}

func toMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

