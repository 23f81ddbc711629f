package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mustaphalimar/prepilot/internal/models"
	"gorm.io/gorm"
)

// PlanService owns study-plan persistence. Every read and write is scoped
// to the owning user's external id.
type PlanService struct {
	DB *gorm.DB
}

// Create inserts a plan owned by plan.UserID.
func (s *PlanService) Create(ctx context.Context, plan *models.StudyPlan) (*models.StudyPlan, error) {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if err := s.DB.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create study plan: %w", err)
	}
	return plan, nil
}

// ListByUser returns the user's plans, newest first.
func (s *PlanService) ListByUser(ctx context.Context, userID string) ([]models.StudyPlan, error) {
	plans := []models.StudyPlan{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// GetOwned loads a plan and enforces ownership: ErrNotFound for unknown ids,
// ErrForbidden when the plan belongs to someone else.
func (s *PlanService) GetOwned(ctx context.Context, userID string, planID uuid.UUID) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	err := s.DB.WithContext(ctx).Where("id = ?", planID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrForbidden
	}
	return &plan, nil
}

// Delete removes an owned plan and its tasks in one transaction.
func (s *PlanService) Delete(ctx context.Context, userID string, planID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, userID, planID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&models.StudyTask{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", planID).Delete(&models.StudyPlan{}).Error
	})
}
