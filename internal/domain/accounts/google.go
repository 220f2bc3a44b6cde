package accounts

import (
	"context"
	"errors"

	"streaming-app/internal/apperr"

	"gorm.io/gorm"
)

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
}

// FindOrCreateGoogle resolves a Google identity to an account: by google_sub
// first, then by a verified email (linking the sub), otherwise a new account
// without password and without subscription is created.
func (s *Service) FindOrCreateGoogle(ctx context.Context, id GoogleIdentity) (*Account, error) {
	email := normalizeEmail(id.Email)
	if id.Subject == "" || email == "" {
		return nil, apperr.Unauthorized("Google token missing required claims")
	}

	var account Account
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("google_sub = ?", id.Subject).First(&account).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where("email = ?", email).First(&account).Error
		switch {
		case err == nil:
			if !id.EmailVerified {
				return apperr.Conflict("Email already registered with a password")
			}
			if account.GoogleSub != nil && *account.GoogleSub != id.Subject {
				return apperr.Conflict("Email linked to another Google account")
			}
			sub := id.Subject
			account.GoogleSub = &sub
			return tx.Model(&Account{}).Where("account_id = ?", account.ID).Update("google_sub", sub).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			sub := id.Subject
			account = Account{Email: email, GoogleSub: &sub}
			created = true
			return tx.Create(&account).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.log.WithField("account_id", account.ID).Info("account created from google sign-in")
	}
	return &account, nil
}
