package client

import (
	"context"
	"net/http"
	"time"
)

// StudyPlan mirrors the API's plan resource.
type StudyPlan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	Description *string   `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ExamDate    time.Time `json:"exam_date"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePlanRequest is the POST /v1/study-plans payload.
type CreatePlanRequest struct {
	Title       string  `json:"title"`
	Subject     string  `json:"subject"`
	Description *string `json:"description,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	ExamDate    string  `json:"exam_date"`
}

func keyStudyPlans() Key        { return Key{"study-plans"} }
func keyStudyPlan(id string) Key { return Key{"study-plan", id} }

// ListPlans fetches the caller's study plans, cached under ["study-plans"].
func (c *Client) ListPlans(ctx context.Context) ([]StudyPlan, error) {
	value, err := c.cache.Fetch(keyStudyPlans(), c.cacheTTL, func() (interface{}, error) {
		plans := []StudyPlan{}
		if err := c.do(ctx, http.MethodGet, "/v1/study-plans", nil, &plans); err != nil {
			return nil, err
		}
		return plans, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]StudyPlan), nil
}

// GetPlan fetches one plan, cached under ["study-plan", id].
func (c *Client) GetPlan(ctx context.Context, planID string) (*StudyPlan, error) {
	value, err := c.cache.Fetch(keyStudyPlan(planID), c.cacheTTL, func() (interface{}, error) {
		var plan StudyPlan
		if err := c.do(ctx, http.MethodGet, "/v1/study-plans/"+planID, nil, &plan); err != nil {
			return nil, err
		}
		return &plan, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*StudyPlan), nil
}

// CreatePlan creates a plan and invalidates the plan list so the next read
// is consistent. There is no optimistic update.
func (c *Client) CreatePlan(ctx context.Context, req CreatePlanRequest) (*StudyPlan, error) {
	var plan StudyPlan
	if err := c.do(ctx, http.MethodPost, "/v1/study-plans", req, &plan); err != nil {
		return nil, err
	}
	c.cache.Invalidate(keyStudyPlans())
	return &plan, nil
}

// DeletePlan deletes a plan and invalidates both the list and the plan's
// own cache keys.
func (c *Client) DeletePlan(ctx context.Context, planID string) error {
	if err := c.do(ctx, http.MethodDelete, "/v1/study-plans/"+planID, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(keyStudyPlans())
	c.cache.Invalidate(keyStudyPlan(planID))
	c.cache.Invalidate(keyPlanTasks(planID))
	return nil
}
