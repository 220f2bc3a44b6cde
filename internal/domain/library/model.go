package library

import (
	"time"

	"streaming-app/internal/domain/accounts"
	"streaming-app/internal/domain/catalog"
)

type WishlistEntry struct {
	ProfileID uint             `gorm:"primaryKey;autoIncrement:false;index:idx_wishlist_profile_id" json:"profile_id"`
	Profile   accounts.Profile `gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	ContentID uint             `gorm:"primaryKey;autoIncrement:false" json:"content_id"`
	Content   catalog.Content  `gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`

	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (WishlistEntry) TableName() string { return "wishlist" }

type ViewingHistory struct {
	ProfileID uint             `gorm:"primaryKey;autoIncrement:false;index:idx_viewing_history_profile_id" json:"profile_id"`
	Profile   accounts.Profile `gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	ContentID uint             `gorm:"primaryKey;autoIncrement:false" json:"content_id"`
	Content   catalog.Content  `gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`

	LastTimestamp int64     `gorm:"not null;default:0;check:chk_viewing_history_last_timestamp,last_timestamp >= 0" json:"last_timestamp"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ViewingHistory) TableName() string { return "viewing_history" }
