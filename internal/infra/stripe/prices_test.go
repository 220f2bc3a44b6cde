package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	stripego "github.com/stripe/stripe-go/v75"
)

func monthly(id, product string, amount int64) *stripego.Price {
	return &stripego.Price{
		ID:         id,
		Active:     true,
		UnitAmount: amount,
		Currency:   stripego.CurrencyEUR,
		Recurring:  &stripego.PriceRecurring{Interval: stripego.PriceRecurringIntervalMonth},
		Product:    &stripego.Product{ID: product, Name: "Streaming " + product, Active: true},
		Metadata:   map[string]string{"max_profiles": "2"},
	}
}

func TestConvertPrice(t *testing.T) {
	p, ok := convertPrice(monthly("price_1", "prod_a", 1399), "")
	assert.True(t, ok)
	assert.Equal(t, "price_1", p.ID)
	assert.Equal(t, "Streaming prod_a", p.Name)
	assert.Equal(t, int64(1399), p.UnitAmount)
	assert.Equal(t, "month", p.Interval)
	assert.Equal(t, "2", p.Metadata["max_profiles"])

	_, ok = convertPrice(monthly("price_1", "prod_a", 1399), "prod_b")
	assert.False(t, ok, "other products are filtered")

	inactive := monthly("price_2", "prod_a", 999)
	inactive.Product.Active = false
	_, ok = convertPrice(inactive, "")
	assert.False(t, ok)

	oneOff := monthly("price_3", "prod_a", 999)
	oneOff.Recurring = nil
	_, ok = convertPrice(oneOff, "")
	assert.False(t, ok)
}
