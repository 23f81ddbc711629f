package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mustaphalimar/prepilot/internal/middleware"
	"github.com/mustaphalimar/prepilot/internal/models"
	"github.com/mustaphalimar/prepilot/internal/services"
	"github.com/mustaphalimar/prepilot/internal/utils"
)

// StudyTaskHandler handles /v1/study-tasks routes.
type StudyTaskHandler struct {
	Tasks *services.TaskService
	Plans *services.PlanService
}

// CreateTaskRequest is the POST payload. PlanID is optional: tasks may
// live outside any plan.
type CreateTaskRequest struct {
	PlanID      *uuid.UUID `json:"plan_id"`
	Title       string     `json:"title" validate:"required,max=255"`
	DueDate     time.Time  `json:"due_date" validate:"required"`
	IsCompleted *bool      `json:"is_completed"`
	Priority    *int       `json:"priority" validate:"omitempty,min=1,max=3"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateTaskRequest is the PUT payload; it replaces all mutable fields.
type UpdateTaskRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	IsCompleted bool      `json:"is_completed"`
	Priority    *int      `json:"priority" validate:"omitempty,min=1,max=3"`
	Notes       *string   `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateTaskStatusRequest is the PATCH /status payload.
type UpdateTaskStatusRequest struct {
	IsCompleted *bool `json:"is_completed" validate:"required"`
}

// Create handles POST /v1/study-tasks
func (h *StudyTaskHandler) Create(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	var req CreateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	// A task attached to a plan must be attached to the caller's plan.
	if req.PlanID != nil {
		if _, err := h.Plans.GetOwned(c.Context(), user.ExternalID, *req.PlanID); err != nil {
			return serviceError(err, "Study plan not found")
		}
	}

	task := &models.StudyTask{
		PlanID:   req.PlanID,
		UserID:   user.ExternalID,
		Title:    req.Title,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Notes:    req.Notes,
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	created, err := h.Tasks.Create(c.Context(), task)
	if err != nil {
		return err
	}

	return utils.DataResponse(c, fiber.StatusCreated, created)
}

// List handles GET /v1/study-tasks with optional plan_id, priority, and
// status query filters.
func (h *StudyTaskHandler) List(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	var filter services.TaskFilter

	if planIDStr := c.Query("plan_id"); planIDStr != "" {
		planID, err := uuid.Parse(planIDStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid plan_id")
		}
		filter.PlanID = &planID
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority, err := strconv.Atoi(priorityStr)
		if err != nil || priority < models.PriorityHigh || priority > models.PriorityLow {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid priority")
		}
		filter.Priority = &priority
	}
	if statusStr := c.Query("status"); statusStr != "" {
		isCompleted, err := strconv.ParseBool(statusStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
		}
		filter.IsCompleted = &isCompleted
	}

	tasks, err := h.Tasks.List(c.Context(), user.ExternalID, filter)
	if err != nil {
		return err
	}

	return utils.DataResponse(c, fiber.StatusOK, tasks)
}

// Get handles GET /v1/study-tasks/:id
func (h *StudyTaskHandler) Get(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	taskID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.Tasks.GetOwned(c.Context(), user.ExternalID, taskID)
	if err != nil {
		return serviceError(err, "Task not found")
	}

	return utils.DataResponse(c, fiber.StatusOK, task)
}

// Update handles PUT /v1/study-tasks/:id
func (h *StudyTaskHandler) Update(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	taskID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	task, err := h.Tasks.Update(c.Context(), user.ExternalID, taskID, &models.StudyTask{
		Title:       req.Title,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
		Priority:    req.Priority,
		Notes:       req.Notes,
	})
	if err != nil {
		return serviceError(err, "Task not found")
	}

	return utils.DataResponse(c, fiber.StatusOK, task)
}

// UpdateStatus handles PATCH /v1/study-tasks/:id/status
func (h *StudyTaskHandler) UpdateStatus(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	taskID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateTaskStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	task, err := h.Tasks.SetStatus(c.Context(), user.ExternalID, taskID, *req.IsCompleted)
	if err != nil {
		return serviceError(err, "Task not found")
	}

	return utils.DataResponse(c, fiber.StatusOK, task)
}

// Delete handles DELETE /v1/study-tasks/:id
func (h *StudyTaskHandler) Delete(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	taskID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.Tasks.Delete(c.Context(), user.ExternalID, taskID); err != nil {
		return serviceError(err, "Task not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
