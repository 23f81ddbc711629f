package models

import (
	"time"

	"github.com/google/uuid"
)

// Task priority levels. A nil priority means "none".
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// StudyTask belongs to at most one study plan. Unplanned tasks (nil PlanID)
// hang directly off the owning user.
type StudyTask struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID      *uuid.UUID `gorm:"type:uuid;index" json:"plan_id"`
	UserID      string     `gorm:"size:255;not null;index" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	Priority    *int       `json:"priority"`
	Notes       *string    `gorm:"size:2000" json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name for StudyTask
func (StudyTask) TableName() string {
	return "study_tasks"
}
