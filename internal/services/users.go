package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mustaphalimar/prepilot/internal/identity"
	"github.com/mustaphalimar/prepilot/internal/models"
	"gorm.io/gorm"
)

// UserService maintains the local mirror of identity-provider accounts.
type UserService struct {
	DB *gorm.DB
}

// EnsureUser upserts the mirrored record for a verified identity and returns
// it. Called on every authenticated request so sign-ins work even when the
// provider webhook has not been delivered yet.
func (s *UserService) EnsureUser(ctx context.Context, ident *identity.User) (*models.User, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	err := db.Where("external_id = ?", ident.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	email := ident.Email
	if email == "" {
		// Tokens without an email claim still need a unique mirrored row.
		email = fmt.Sprintf("%s@accounts.prepilot.app", ident.ID)
	}

	user = models.User{
		ID:            uuid.New(),
		ExternalID:    ident.ID,
		Email:         email,
		Name:          ident.Name,
		FirstName:     ident.FirstName,
		LastName:      ident.LastName,
		ImageURL:      ident.ImageURL,
		EmailVerified: ident.EmailVerified,
		LastSignInAt:  ident.LastSignInAt,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByExternalID loads a mirrored user by its provider account id.
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertFromWebhook applies a user.created/user.updated webhook payload.
func (s *UserService) UpsertFromWebhook(ctx context.Context, ident *identity.User) (*models.User, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	err := db.Where("external_id = ?", ident.ID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.EnsureUser(ctx, ident)
	case err != nil:
		return nil, err
	}

	user.Email = ident.Email
	user.Name = ident.Name
	user.FirstName = ident.FirstName
	user.LastName = ident.LastName
	user.ImageURL = ident.ImageURL
	user.EmailVerified = ident.EmailVerified
	if ident.LastSignInAt != nil {
		user.LastSignInAt = ident.LastSignInAt
	}

	if err := db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// DeleteByExternalID removes a mirrored user and everything they own.
func (s *UserService) DeleteByExternalID(ctx context.Context, externalID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", externalID).Delete(&models.StudyTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", externalID).Delete(&models.StudyPlan{}).Error; err != nil {
			return err
		}
		return tx.Where("external_id = ?", externalID).Delete(&models.User{}).Error
	})
}

// RecordSignIn stamps the last sign-in time for a session.created webhook.
func (s *UserService) RecordSignIn(ctx context.Context, externalID string, at time.Time) error {
	return s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("external_id = ?", externalID).
		Update("last_sign_in_at", at).Error
}
