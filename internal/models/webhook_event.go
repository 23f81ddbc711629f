package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WebhookEvent records a processed identity-provider webhook delivery.
// The unique provider event id makes redelivery idempotent.
type WebhookEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventID    string         `gorm:"size:255;not null;uniqueIndex" json:"event_id"`
	EventType  string         `gorm:"size:64;not null;index" json:"event_type"`
	Payload    datatypes.JSON `gorm:"type:json" json:"payload"`
	ReceivedAt time.Time      `gorm:"not null" json:"received_at"`
}

// TableName overrides the table name for WebhookEvent
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
