package accounts

import (
	"context"
	"errors"
	"strings"

	"streaming-app/internal/apperr"
	"streaming-app/internal/auth"
	"streaming-app/internal/domain/subscriptions"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	hasher *auth.PasswordHasher
	log    logrus.FieldLogger
}

func NewService(db *gorm.DB, hasher *auth.PasswordHasher, log logrus.FieldLogger) *Service {
	return &Service{db: db, hasher: hasher, log: log.WithField("service", "accounts")}
}

type RegisterInput struct {
	Email          string
	Password       string
	SubscriptionID uint
}

type UpdateInput struct {
	Email    *string
	Password *string
}

type AdminUpdateInput struct {
	Email          *string
	SubscriptionID *uint
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperr.BadRequest("Email and password required")
	}
	if !auth.IsEmailValid(email) {
		return nil, apperr.BadRequest("Invalid email format")
	}
	if !auth.IsPasswordStrong(in.Password) {
		return nil, apperr.BadRequest("Password must be at least 8 characters long and contain both letters and numbers")
	}
	if in.SubscriptionID == 0 {
		return nil, apperr.BadRequest("subscription_id required")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	subID := in.SubscriptionID
	account := Account{Email: email, PasswordHash: hashed, SubscriptionID: &subID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, email, 0); err != nil {
			return err
		}
		if _, err := subscriptions.Find(tx, subID); err != nil {
			return asBadRequest(err)
		}
		if err := tx.Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("Email already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("account_id", account.ID).Info("account registered")
	return &account, nil
}

// Authenticate checks credentials and returns the matching account. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	if email == "" || password == "" {
		return nil, apperr.BadRequest("Email and password required")
	}
	var account Account
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return &account, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Account, error) {
	return findAccount(s.db.WithContext(ctx).Preload("Subscription"), id)
}

func findAccount(tx *gorm.DB, id uint) (*Account, error) {
	var account Account
	if err := tx.First(&account, "account_id = ?", id).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Account not found")
	}
	return &account, nil
}

func ensureEmailFree(tx *gorm.DB, email string, exceptID uint) error {
	var count int64
	q := tx.Model(&Account{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("account_id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("Email already exists")
	}
	return nil
}

// asBadRequest turns a missing referenced subscription into a client error.
func asBadRequest(err error) error {
	if apperr.IsKind(err, apperr.KindNotFound) {
		return apperr.Wrap(apperr.KindBadRequest, "Subscription not found", err)
	}
	return err
}

func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*Account, error) {
	var newEmail, newHash string
	if in.Email != nil {
		newEmail = normalizeEmail(*in.Email)
		if !auth.IsEmailValid(newEmail) {
			return nil, apperr.BadRequest("Invalid email format")
		}
	}
	if in.Password != nil {
		if !auth.IsPasswordStrong(*in.Password) {
			return nil, apperr.BadRequest("Password must be at least 8 characters long and contain both letters and numbers")
		}
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperr.Internal("Failed to hash password", err)
		}
		newHash = hashed
	}

	var account *Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if account, err = findAccount(tx, id); err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if newEmail != "" && newEmail != account.Email {
			if err := ensureEmailFree(tx, newEmail, id); err != nil {
				return err
			}
			updates["email"] = newEmail
			account.Email = newEmail
		}
		if newHash != "" {
			updates["password_hash"] = newHash
			account.PasswordHash = newHash
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&Account{}).Where("account_id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("account_id", id).Info("account updated")
	return account, nil
}

func (s *Service) GetSubscription(ctx context.Context, accountID uint) (*subscriptions.Subscription, error) {
	account, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.SubscriptionID == nil {
		return nil, apperr.NotFound("No subscription found")
	}
	return subscriptions.Find(s.db.WithContext(ctx), *account.SubscriptionID)
}

// ChangeSubscription moves the account to another plan. Profiles above the new
// plan's limit are kept; the limit only applies when creating profiles.
func (s *Service) ChangeSubscription(ctx context.Context, accountID, subscriptionID uint) (*subscriptions.Subscription, error) {
	if subscriptionID == 0 {
		return nil, apperr.BadRequest("subscription_id required")
	}
	var sub *subscriptions.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findAccount(tx, accountID); err != nil {
			return err
		}
		var err error
		if sub, err = subscriptions.Find(tx, subscriptionID); err != nil {
			return asBadRequest(err)
		}
		return tx.Model(&Account{}).Where("account_id = ?", accountID).Update("subscription_id", subscriptionID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"account_id": accountID, "subscription_id": subscriptionID}).Info("subscription changed")
	return sub, nil
}

// List returns every account with its plan loaded.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := s.db.WithContext(ctx).Preload("Subscription").Order("account_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) AdminUpdate(ctx context.Context, id uint, in AdminUpdateInput) (*Account, error) {
	var newEmail string
	if in.Email != nil {
		newEmail = normalizeEmail(*in.Email)
		if !auth.IsEmailValid(newEmail) {
			return nil, apperr.BadRequest("Invalid email format")
		}
	}

	var account *Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if account, err = findAccount(tx, id); err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if newEmail != "" && newEmail != account.Email {
			if err := ensureEmailFree(tx, newEmail, id); err != nil {
				return err
			}
			updates["email"] = newEmail
			account.Email = newEmail
		}
		if in.SubscriptionID != nil {
			subID := *in.SubscriptionID
			if _, err := subscriptions.Find(tx, subID); err != nil {
				return asBadRequest(err)
			}
			updates["subscription_id"] = subID
			account.SubscriptionID = &subID
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&Account{}).Where("account_id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("account_id", id).Info("account updated by admin")
	return account, nil
}

// Delete removes the account; profiles, wishlists and history go with it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Account{}, "account_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Account not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("account_id", id).Info("account deleted")
	return nil
}
