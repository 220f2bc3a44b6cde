package subscriptions

import (
	"context"
	"fmt"
	"strings"

	"streaming-app/internal/apperr"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	log    logrus.FieldLogger
	prices PriceSource
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log.WithField("service", "subscriptions")}
}

// WithPriceSource enables SyncFromStripe.
func (s *Service) WithPriceSource(p PriceSource) *Service {
	s.prices = p
	return s
}

type CreateInput struct {
	Name         string
	MaxProfiles  int
	MonthlyPrice float64
}

type UpdateInput struct {
	Name         *string
	MaxProfiles  *int
	MonthlyPrice *float64
}

func (s *Service) List(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := s.db.WithContext(ctx).Order("subscription_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Subscription, error) {
	return Find(s.db.WithContext(ctx), id)
}

// Find loads a plan inside an existing query scope, typically a transaction.
func Find(tx *gorm.DB, id uint) (*Subscription, error) {
	var sub Subscription
	if err := tx.First(&sub, "subscription_id = ?", id).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Subscription not found")
	}
	return &sub, nil
}

func validate(name string, maxProfiles int, price float64) error {
	if name == "" {
		return apperr.BadRequest("name is required")
	}
	if maxProfiles < 1 {
		return apperr.BadRequest("max_profiles must be at least 1")
	}
	if price < 0 {
		return apperr.BadRequest("monthly_price must not be negative")
	}
	return nil
}

func nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&Subscription{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("subscription_id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Subscription, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(in.Name, in.MaxProfiles, in.MonthlyPrice); err != nil {
		return nil, err
	}

	sub := Subscription{Name: in.Name, MaxProfiles: in.MaxProfiles, MonthlyPrice: in.MonthlyPrice}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, sub.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("Subscription name already exists")
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("subscription_id", sub.ID).Info("subscription created")
	return &sub, nil
}

func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*Subscription, error) {
	var sub *Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = Find(tx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			sub.Name = strings.TrimSpace(*in.Name)
		}
		if in.MaxProfiles != nil {
			sub.MaxProfiles = *in.MaxProfiles
		}
		if in.MonthlyPrice != nil {
			sub.MonthlyPrice = *in.MonthlyPrice
		}
		if err := validate(sub.Name, sub.MaxProfiles, sub.MonthlyPrice); err != nil {
			return err
		}
		taken, err := nameTaken(tx, sub.Name, sub.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("Subscription name already exists")
		}
		return tx.Model(sub).Updates(map[string]interface{}{
			"name":          sub.Name,
			"max_profiles":  sub.MaxProfiles,
			"monthly_price": sub.MonthlyPrice,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("subscription_id", id).Info("subscription updated")
	return sub, nil
}

// Delete removes a plan. A plan still referenced by accounts is only removed
// when force is set; those accounts are left without a subscription.
func (s *Service) Delete(ctx context.Context, id uint, force bool) error {
	var detached int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find(tx, id); err != nil {
			return err
		}

		var inUse int64
		if err := tx.Table("accounts").Where("subscription_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			if !force {
				return apperr.Conflict(fmt.Sprintf("Subscription is used by %d account(s)", inUse))
			}
			res := tx.Table("accounts").Where("subscription_id = ?", id).Update("subscription_id", nil)
			if res.Error != nil {
				return res.Error
			}
			detached = res.RowsAffected
		}

		res := tx.Delete(&Subscription{}, "subscription_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Subscription not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"subscription_id": id, "detached_accounts": detached}).Info("subscription deleted")
	return nil
}
