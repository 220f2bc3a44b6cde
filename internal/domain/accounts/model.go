package accounts

import (
	"time"

	"streaming-app/internal/domain/subscriptions"
)

type Account struct {
	ID           uint    `gorm:"column:account_id;primaryKey" json:"account_id"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_email" json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_accounts_google_sub" json:"-"`

	SubscriptionID *uint                       `gorm:"column:subscription_id;index" json:"subscription_id"`
	Subscription   *subscriptions.Subscription `gorm:"foreignKey:SubscriptionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Profiles []Profile `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	ID            uint   `gorm:"column:profile_id;primaryKey" json:"profile_id"`
	AccountID     uint   `gorm:"not null;index:idx_profiles_account_id" json:"account_id"`
	Name          string `gorm:"type:varchar(100);not null" json:"name"`
	AgeRatingPref string `gorm:"type:varchar(10);not null" json:"age_rating_pref"`

	CreatedAt time.Time `json:"created_at"`
}
