package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an identity-provider account locally. It is created on the
// first successful sign-in (ensure-exists) and kept in sync by webhooks.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID    string     `gorm:"size:255;not null;uniqueIndex" json:"external_id"`
	Email         string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name          *string    `gorm:"size:255" json:"name"`
	FirstName     *string    `gorm:"size:255" json:"first_name"`
	LastName      *string    `gorm:"size:255" json:"last_name"`
	ImageURL      *string    `gorm:"size:1024" json:"image_url"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	LastSignInAt  *time.Time `json:"last_sign_in"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
