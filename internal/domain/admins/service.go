package admins

import (
	"context"
	"errors"
	"strings"

	"streaming-app/internal/apperr"
	"streaming-app/internal/auth"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	hasher *auth.PasswordHasher
	log    logrus.FieldLogger
}

func NewService(db *gorm.DB, hasher *auth.PasswordHasher, log logrus.FieldLogger) *Service {
	return &Service{db: db, hasher: hasher, log: log.WithField("service", "admins")}
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.BadRequest("Username and password required")
	}
	var admin Admin
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, admin.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return &admin, nil
}

// Create registers an administrator. Admins are only created out of band
// (CLI), never through the HTTP API.
func (s *Service) Create(ctx context.Context, username, password string) (*Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.BadRequest("Username and password required")
	}
	if !auth.IsPasswordStrong(password) {
		return nil, apperr.BadRequest("Password must be at least 8 characters long and contain both letters and numbers")
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	admin := Admin{Username: username, PasswordHash: hashed}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("Username already exists")
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("admin_id", admin.ID).Info("admin created")
	return &admin, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Admin, error) {
	var admin Admin
	if err := s.db.WithContext(ctx).First(&admin, "admin_id = ?", id).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Admin not found")
	}
	return &admin, nil
}
