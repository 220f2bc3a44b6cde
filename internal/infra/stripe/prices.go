package stripe

import (
	"context"
	"fmt"

	"streaming-app/internal/domain/subscriptions"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// PriceSource lists active recurring prices from Stripe, optionally limited to
// one product.
type PriceSource struct {
	api       *client.API
	productID string
}

func NewPriceSource(secretKey, productID string) *PriceSource {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &PriceSource{api: api, productID: productID}
}

func (s *PriceSource) ActivePrices(ctx context.Context) ([]subscriptions.Price, error) {
	params := &stripego.PriceListParams{}
	params.Context = ctx
	params.Active = stripego.Bool(true)
	params.Type = stripego.String(string(stripego.PriceTypeRecurring))
	params.AddExpand("data.product")

	var out []subscriptions.Price
	it := s.api.Prices.List(params)
	for it.Next() {
		if p, ok := convertPrice(it.Price(), s.productID); ok {
			out = append(out, p)
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list stripe prices: %w", err)
	}
	return out, nil
}

// convertPrice drops inactive prices, prices of inactive products and prices
// of other products when productID is set.
func convertPrice(p *stripego.Price, productID string) (subscriptions.Price, bool) {
	if p == nil || !p.Active || p.Recurring == nil {
		return subscriptions.Price{}, false
	}
	name := p.Nickname
	if p.Product != nil {
		if !p.Product.Active {
			return subscriptions.Price{}, false
		}
		if productID != "" && p.Product.ID != productID {
			return subscriptions.Price{}, false
		}
		if p.Product.Name != "" {
			name = p.Product.Name
		}
	} else if productID != "" {
		return subscriptions.Price{}, false
	}

	return subscriptions.Price{
		ID:         p.ID,
		Name:       name,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
		Interval:   string(p.Recurring.Interval),
		Metadata:   p.Metadata,
	}, true
}
