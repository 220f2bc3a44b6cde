package accounts

import (
	"context"
	"strings"

	"streaming-app/internal/apperr"
	"streaming-app/internal/domain/subscriptions"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProfileInput struct {
	Name          string
	AgeRatingPref string
}

type ProfileUpdate struct {
	Name          *string
	AgeRatingPref *string
}

// LoadOwnedProfile returns the profile only when it belongs to accountID.
// A profile owned by someone else is reported as Forbidden, not NotFound.
func LoadOwnedProfile(tx *gorm.DB, accountID, profileID uint) (*Profile, error) {
	var p Profile
	if err := tx.First(&p, "profile_id = ?", profileID).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Profile not found")
	}
	if p.AccountID != accountID {
		return nil, apperr.Forbidden("Profile belongs to another account")
	}
	return &p, nil
}

func (s *Service) OwnedProfile(ctx context.Context, accountID, profileID uint) (*Profile, error) {
	return LoadOwnedProfile(s.db.WithContext(ctx), accountID, profileID)
}

func (s *Service) GetProfile(ctx context.Context, accountID, profileID uint) (*Profile, error) {
	return s.OwnedProfile(ctx, accountID, profileID)
}

func (s *Service) ListProfiles(ctx context.Context, accountID uint) ([]Profile, error) {
	var out []Profile
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("profile_id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProfile adds a profile while the account's plan still has room for it.
func (s *Service) CreateProfile(ctx context.Context, accountID uint, in ProfileInput) (*Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.AgeRatingPref = strings.TrimSpace(in.AgeRatingPref)
	if in.Name == "" || in.AgeRatingPref == "" {
		return nil, apperr.BadRequest("name and age_rating_pref required")
	}
	if len(in.AgeRatingPref) > 10 {
		return nil, apperr.BadRequest("age_rating_pref must be at most 10 characters")
	}

	profile := Profile{AccountID: accountID, Name: in.Name, AgeRatingPref: in.AgeRatingPref}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := findAccount(tx, accountID)
		if err != nil {
			return err
		}
		if account.SubscriptionID == nil {
			return apperr.BadRequest("Account has no subscription")
		}
		sub, err := subscriptions.Find(tx, *account.SubscriptionID)
		if err != nil {
			return asBadRequest(err)
		}

		var count int64
		if err := tx.Model(&Profile{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(sub.MaxProfiles) {
			return apperr.BadRequest("Profile limit reached")
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"account_id": accountID, "profile_id": profile.ID}).Info("profile created")
	return &profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, accountID, profileID uint, in ProfileUpdate) (*Profile, error) {
	var profile *Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if profile, err = LoadOwnedProfile(tx, accountID, profileID); err != nil {
			return err
		}
		if in.Name != nil {
			if v := strings.TrimSpace(*in.Name); v != "" {
				profile.Name = v
			}
		}
		if in.AgeRatingPref != nil {
			if v := strings.TrimSpace(*in.AgeRatingPref); v != "" {
				if len(v) > 10 {
					return apperr.BadRequest("age_rating_pref must be at most 10 characters")
				}
				profile.AgeRatingPref = v
			}
		}
		return tx.Model(&Profile{}).Where("profile_id = ?", profileID).Updates(map[string]interface{}{
			"name":            profile.Name,
			"age_rating_pref": profile.AgeRatingPref,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("profile_id", profileID).Info("profile updated")
	return profile, nil
}

func (s *Service) DeleteProfile(ctx context.Context, accountID, profileID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LoadOwnedProfile(tx, accountID, profileID); err != nil {
			return err
		}
		return tx.Delete(&Profile{}, "profile_id = ?", profileID).Error
	})
	if err != nil {
		return err
	}

	s.log.WithField("profile_id", profileID).Info("profile deleted")
	return nil
}
