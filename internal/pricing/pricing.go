// Package pricing holds the storefront's money arithmetic: discounted unit
// prices, cart totals and checkout totals under a single shipping policy.
//
// Values are computed with decimal arithmetic. Discounted unit prices are
// rounded to PricePrecision places, the same rounding the SQL and MongoDB
// catalog queries apply; totals are returned unrounded and rounding for
// display is left to the client.
package pricing

import "github.com/shopspring/decimal"

// PricePrecision is the number of decimal places kept on a discounted price.
const PricePrecision = 6

var hundred = decimal.NewFromInt(100)

// Policy is the shipping rule applied by both cart and checkout totals.
type Policy struct {
	// FlatFee is charged whenever the items price is positive and not above
	// the free shipping threshold.
	FlatFee float64
	// FreeShippingThreshold waives shipping for items prices strictly above it.
	// Zero or negative disables free shipping.
	FreeShippingThreshold float64
}

// DefaultPolicy mirrors the checkout rule: 40 flat, free above 500.
func DefaultPolicy() Policy {
	return Policy{FlatFee: 40, FreeShippingThreshold: 500}
}

// Line is one priced cart or order line.
type Line struct {
	Price    float64
	Discount float64 // percent, 0-100
	Quantity int
}

// CartSummary is what the cart view renders.
type CartSummary struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// OrderSummary is the snapshot persisted with an order.
type OrderSummary struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// DiscountedPrice returns price - price*discount/100.
func DiscountedPrice(price, discount float64) float64 {
	if discount <= 0 {
		return price
	}
	return discounted(decimal.NewFromFloat(price), decimal.NewFromFloat(discount)).Round(PricePrecision).InexactFloat64()
}

func discounted(price, discount decimal.Decimal) decimal.Decimal {
	return price.Sub(saving(price, discount))
}

func saving(price, discount decimal.Decimal) decimal.Decimal {
	return price.Mul(discount).Div(hundred)
}

// Shipping returns the fee owed on itemsPrice.
func (p Policy) Shipping(itemsPrice float64) float64 {
	if itemsPrice <= 0 {
		return 0
	}
	if p.FreeShippingThreshold > 0 && itemsPrice > p.FreeShippingThreshold {
		return 0
	}
	return p.FlatFee
}

// CartTotals sums discounted line costs and the savings on discounted lines.
func (p Policy) CartTotals(lines []Line) CartSummary {
	subtotal, savings := decimal.Zero, decimal.Zero
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		price := decimal.NewFromFloat(l.Price)
		if l.Discount > 0 {
			disc := decimal.NewFromFloat(l.Discount)
			subtotal = subtotal.Add(discounted(price, disc).Mul(qty))
			savings = savings.Add(saving(price, disc).Mul(qty))
			continue
		}
		subtotal = subtotal.Add(price.Mul(qty))
	}

	sub := subtotal.InexactFloat64()
	shipping := p.Shipping(sub)
	return CartSummary{
		Subtotal: sub,
		Discount: savings.InexactFloat64(),
		Shipping: shipping,
		Total:    sub + shipping,
	}
}

// OrderTotals computes the checkout snapshot. TotalPrice is always exactly
// ItemsPrice + ShippingPrice.
func (p Policy) OrderTotals(lines []Line) OrderSummary {
	items := p.CartTotals(lines).Subtotal
	shipping := p.Shipping(items)
	return OrderSummary{
		ItemsPrice:    items,
		ShippingPrice: shipping,
		TotalPrice:    items + shipping,
	}
}
