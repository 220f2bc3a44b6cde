package library

import (
	"context"
	"time"

	"streaming-app/internal/apperr"
	"streaming-app/internal/domain/accounts"
	"streaming-app/internal/domain/catalog"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service keeps a profile's wishlist and viewing history. Every call is scoped
// to the authenticated account and fails with Forbidden on foreign profiles.
type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
	now func() time.Time
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log.WithField("service", "library"), now: time.Now}
}

// WishlistItem is a wishlist entry joined with its content.
type WishlistItem struct {
	ContentID   uint      `json:"content_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	ReleaseYear int       `json:"release_year"`
	AddedAt     time.Time `json:"added_at"`
}

// HistoryItem is a viewing history entry joined with its content.
type HistoryItem struct {
	ContentID     uint      `json:"content_id"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	LastTimestamp int64     `json:"last_timestamp"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Service) Wishlist(ctx context.Context, accountID, profileID uint) ([]WishlistItem, error) {
	db := s.db.WithContext(ctx)
	if _, err := accounts.LoadOwnedProfile(db, accountID, profileID); err != nil {
		return nil, err
	}
	var out []WishlistItem
	err := db.Table("wishlist").
		Select("wishlist.content_id, content.title, content.type, content.release_year, wishlist.added_at").
		Joins("JOIN content ON content.content_id = wishlist.content_id").
		Where("wishlist.profile_id = ?", profileID).
		Order("wishlist.added_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddToWishlist is idempotent; adding content twice keeps the first entry.
func (s *Service) AddToWishlist(ctx context.Context, accountID, profileID, contentID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := accounts.LoadOwnedProfile(tx, accountID, profileID); err != nil {
			return err
		}
		if _, err := catalog.FindContent(tx, contentID); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&WishlistEntry{ProfileID: profileID, ContentID: contentID, AddedAt: s.now()}).Error
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"profile_id": profileID, "content_id": contentID}).Debug("wishlist entry added")
	return nil
}

func (s *Service) RemoveFromWishlist(ctx context.Context, accountID, profileID, contentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := accounts.LoadOwnedProfile(tx, accountID, profileID); err != nil {
			return err
		}
		return tx.Where("profile_id = ? AND content_id = ?", profileID, contentID).
			Delete(&WishlistEntry{}).Error
	})
}

func (s *Service) History(ctx context.Context, accountID, profileID uint) ([]HistoryItem, error) {
	db := s.db.WithContext(ctx)
	if _, err := accounts.LoadOwnedProfile(db, accountID, profileID); err != nil {
		return nil, err
	}
	var out []HistoryItem
	err := db.Table("viewing_history").
		Select("viewing_history.content_id, content.title, content.type, viewing_history.last_timestamp, viewing_history.updated_at").
		Joins("JOIN content ON content.content_id = viewing_history.content_id").
		Where("viewing_history.profile_id = ?", profileID).
		Order("viewing_history.updated_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) HistoryItem(ctx context.Context, accountID, profileID, contentID uint) (*ViewingHistory, error) {
	db := s.db.WithContext(ctx)
	if _, err := accounts.LoadOwnedProfile(db, accountID, profileID); err != nil {
		return nil, err
	}
	var h ViewingHistory
	if err := db.Where("profile_id = ? AND content_id = ?", profileID, contentID).First(&h).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "History not found")
	}
	return &h, nil
}

// UpsertHistory records the playback position. There is at most one row per
// (profile, content); a second call overwrites the timestamp.
func (s *Service) UpsertHistory(ctx context.Context, accountID, profileID, contentID uint, lastTimestamp int64) (*ViewingHistory, error) {
	if lastTimestamp < 0 {
		return nil, apperr.BadRequest("last_timestamp must not be negative")
	}

	h := ViewingHistory{ProfileID: profileID, ContentID: contentID, LastTimestamp: lastTimestamp, UpdatedAt: s.now()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := accounts.LoadOwnedProfile(tx, accountID, profileID); err != nil {
			return err
		}
		if _, err := catalog.FindContent(tx, contentID); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "content_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_timestamp", "updated_at"}),
		}).Create(&h).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"profile_id": profileID, "content_id": contentID}).Debug("viewing history updated")
	return &h, nil
}

func (s *Service) DeleteHistory(ctx context.Context, accountID, profileID, contentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := accounts.LoadOwnedProfile(tx, accountID, profileID); err != nil {
			return err
		}
		return tx.Where("profile_id = ? AND content_id = ?", profileID, contentID).
			Delete(&ViewingHistory{}).Error
	})
}
