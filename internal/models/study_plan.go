package models

import (
	"time"

	"github.com/google/uuid"
)

// StudyPlan is a user-owned container of exam-prep tasks bounded by
// start/end/exam dates. Progress is stored and recomputed from task
// completion whenever a task under the plan mutates.
type StudyPlan struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string     `gorm:"size:255;not null;index" json:"user_id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Subject     string     `gorm:"size:50;not null" json:"subject"`
	Description *string    `gorm:"size:500" json:"description"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     time.Time  `gorm:"not null" json:"end_date"`
	ExamDate    time.Time  `gorm:"not null" json:"exam_date"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tasks       []StudyTask `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for StudyPlan
func (StudyPlan) TableName() string {
	return "study_plans"
}
