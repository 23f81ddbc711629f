package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/mustaphalimar/prepilot/internal/models"
	"gorm.io/gorm"
)

// TaskService owns study-task persistence and keeps the parent plan's
// stored progress percentage in step with task completion.
type TaskService struct {
	DB *gorm.DB
}

// TaskFilter narrows List results. Zero values mean "no filter".
type TaskFilter struct {
	PlanID      *uuid.UUID
	Priority    *int
	IsCompleted *bool
}

// Create inserts a task for userID and refreshes plan progress.
func (s *TaskService) Create(ctx context.Context, task *models.StudyTask) (*models.StudyTask, error) {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return refreshPlanProgress(tx, task.PlanID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create study task: %w", err)
	}
	return task, nil
}

// ListForPlan returns the tasks of a plan ordered by due date.
func (s *TaskService) ListForPlan(ctx context.Context, planID uuid.UUID) ([]models.StudyTask, error) {
	tasks := []models.StudyTask{}
	err := s.DB.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// List returns the user's tasks, optionally filtered by plan, priority,
// and completion status.
func (s *TaskService) List(ctx context.Context, userID string, filter TaskFilter) ([]models.StudyTask, error) {
	query := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if filter.PlanID != nil {
		query = query.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}

	tasks := []models.StudyTask{}
	if err := query.Order("due_date ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetOwned loads a task and enforces ownership.
func (s *TaskService) GetOwned(ctx context.Context, userID string, taskID uuid.UUID) (*models.StudyTask, error) {
	var task models.StudyTask
	err := s.DB.WithContext(ctx).Where("id = ?", taskID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return &task, nil
}

// Update replaces the mutable fields of an owned task.
func (s *TaskService) Update(ctx context.Context, userID string, taskID uuid.UUID, updated *models.StudyTask) (*models.StudyTask, error) {
	task, err := s.GetOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = updated.Title
	task.DueDate = updated.DueDate
	task.IsCompleted = updated.IsCompleted
	task.Priority = updated.Priority
	task.Notes = updated.Notes

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		return refreshPlanProgress(tx, task.PlanID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update study task: %w", err)
	}
	return task, nil
}

// SetStatus toggles completion for an owned task.
func (s *TaskService) SetStatus(ctx context.Context, userID string, taskID uuid.UUID, isCompleted bool) (*models.StudyTask, error) {
	task, err := s.GetOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = isCompleted
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).Update("is_completed", isCompleted).Error; err != nil {
			return err
		}
		return refreshPlanProgress(tx, task.PlanID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return task, nil
}

// Delete removes an owned task and refreshes plan progress.
func (s *TaskService) Delete(ctx context.Context, userID string, taskID uuid.UUID) error {
	task, err := s.GetOwned(ctx, userID, taskID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(task).Error; err != nil {
			return err
		}
		return refreshPlanProgress(tx, task.PlanID)
	})
}

// refreshPlanProgress recomputes the stored percentage from task completion.
// Plans with no tasks stay at 0.
func refreshPlanProgress(tx *gorm.DB, planID *uuid.UUID) error {
	if planID == nil {
		return nil
	}

	var total, completed int64
	if err := tx.Model(&models.StudyTask{}).Where("plan_id = ?", *planID).Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.StudyTask{}).
		Where("plan_id = ? AND is_completed = ?", *planID, true).
		Count(&completed).Error; err != nil {
		return err
	}

	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return tx.Model(&models.StudyPlan{}).
		Where("id = ?", *planID).
		Update("progress", progress).Error
}
