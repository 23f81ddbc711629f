package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mustaphalimar/prepilot/internal/middleware"
	"github.com/mustaphalimar/prepilot/internal/models"
	"github.com/mustaphalimar/prepilot/internal/services"
	"github.com/mustaphalimar/prepilot/internal/utils"
)

// StudyPlanHandler handles /v1/study-plans routes.
type StudyPlanHandler struct {
	Plans *services.PlanService
	Tasks *services.TaskService
}

// CreateStudyPlanRequest mirrors the web client's create-plan form.
// The server is the source of truth for validation; the date ordering
// constraints (start <= end <= exam) are enforced here.
type CreateStudyPlanRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=100"`
	Subject     string    `json:"subject" validate:"required,min=2,max=50"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	ExamDate    time.Time `json:"exam_date" validate:"required,gtefield=EndDate"`
}

// List handles GET /v1/study-plans
func (h *StudyPlanHandler) List(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	plans, err := h.Plans.ListByUser(c.Context(), user.ExternalID)
	if err != nil {
		return err
	}

	return utils.DataResponse(c, fiber.StatusOK, plans)
}

// Create handles POST /v1/study-plans
func (h *StudyPlanHandler) Create(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	var req CreateStudyPlanRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	plan, err := h.Plans.Create(c.Context(), &models.StudyPlan{
		UserID:      user.ExternalID,
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ExamDate:    req.ExamDate,
	})
	if err != nil {
		return err
	}

	return utils.DataResponse(c, fiber.StatusCreated, plan)
}

// Get handles GET /v1/study-plans/:id
func (h *StudyPlanHandler) Get(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	planID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	plan, err := h.Plans.GetOwned(c.Context(), user.ExternalID, planID)
	if err != nil {
		return serviceError(err, "Study plan not found")
	}

	return utils.DataResponse(c, fiber.StatusOK, plan)
}

// Delete handles DELETE /v1/study-plans/:id. Tasks under the plan are
// removed with it.
func (h *StudyPlanHandler) Delete(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	planID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.Plans.Delete(c.Context(), user.ExternalID, planID); err != nil {
		return serviceError(err, "Study plan not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListTasks handles GET /v1/study-plans/:id/tasks
func (h *StudyPlanHandler) ListTasks(c *fiber.Ctx) error {
	user, _ := middleware.UserFromContext(c)

	planID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	// Ownership gate before touching the task table.
	if _, err := h.Plans.GetOwned(c.Context(), user.ExternalID, planID); err != nil {
		return serviceError(err, "Study plan not found")
	}

	tasks, err := h.Tasks.ListForPlan(c.Context(), planID)
	if err != nil {
		return err
	}

	return utils.DataResponse(c, fiber.StatusOK, tasks)
}
