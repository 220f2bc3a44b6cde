package subscriptions

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"streaming-app/internal/apperr"

	"gorm.io/gorm"
)

var ErrNoPriceSource = errors.New("stripe is not configured")

// Price is a recurring price offered by the billing provider.
type Price struct {
	ID         string
	Name       string
	UnitAmount int64 // minor units
	Currency   string
	Interval   string
	Metadata   map[string]string
}

type PriceSource interface {
	ActivePrices(ctx context.Context) ([]Price, error)
}

type SyncResult struct {
	Synced  int `json:"synced"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// SyncFromStripe imports monthly prices as subscription plans. A price is
// matched to an existing plan by stripe price id first, then by name. Prices
// without a usable max_profiles metadata value are skipped.
func (s *Service) SyncFromStripe(ctx context.Context) (*SyncResult, error) {
	if s.prices == nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "Stripe is not configured", ErrNoPriceSource)
	}

	prices, err := s.prices.ActivePrices(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch Stripe prices", err)
	}

	var res SyncResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range prices {
			if p.Interval != "month" {
				res.Skipped++
				continue
			}
			if p.Metadata["visible"] == "false" {
				res.Skipped++
				continue
			}
			maxProfiles, err := strconv.Atoi(strings.TrimSpace(p.Metadata["max_profiles"]))
			if err != nil || maxProfiles < 1 {
				res.Skipped++
				continue
			}

			name := strings.TrimSpace(p.Name)
			if v := strings.TrimSpace(p.Metadata["plan"]); v != "" {
				name = v
			}
			if name == "" {
				res.Skipped++
				continue
			}
			priceID := p.ID
			amount := float64(p.UnitAmount) / 100.0

			var existing Subscription
			err = tx.Where("stripe_price_id = ?", priceID).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = tx.Where("name = ?", name).First(&existing).Error
			}

			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				plan := Subscription{
					Name:          name,
					MonthlyPrice:  amount,
					MaxProfiles:   maxProfiles,
					StripePriceID: &priceID,
				}
				if err := tx.Create(&plan).Error; err != nil {
					return err
				}
				res.Created++
			case err != nil:
				return err
			default:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"name":            name,
					"monthly_price":   amount,
					"max_profiles":    maxProfiles,
					"stripe_price_id": priceID,
				}).Error; err != nil {
					return err
				}
				res.Updated++
			}
			res.Synced++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("synced", res.Synced).Info("subscriptions synced from stripe")
	return &res, nil
}
