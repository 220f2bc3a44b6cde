package subscriptions

import "time"

type Subscription struct {
	ID            uint    `gorm:"column:subscription_id;primaryKey" json:"subscription_id"`
	Name          string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_subscriptions_name" json:"name"`
	MonthlyPrice  float64 `gorm:"type:decimal(10,2);not null" json:"monthly_price"`
	MaxProfiles   int     `gorm:"not null" json:"max_profiles"`
	StripePriceID *string `gorm:"column:stripe_price_id;uniqueIndex:idx_subscriptions_stripe_price_id" json:"stripe_price_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
