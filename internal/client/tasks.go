package client

import (
	"context"
	"net/http"
	"time"
)

// StudyTask mirrors the API's task resource.
type StudyTask struct {
	ID          string    `json:"id"`
	PlanID      *string   `json:"plan_id"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"due_date"`
	IsCompleted bool      `json:"is_completed"`
	Priority    *int      `json:"priority"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest is the POST /v1/study-tasks payload.
type CreateTaskRequest struct {
	PlanID      *string `json:"plan_id,omitempty"`
	Title       string  `json:"title"`
	DueDate     string  `json:"due_date"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateTaskRequest is the PUT /v1/study-tasks/:id payload.
type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	DueDate     string  `json:"due_date"`
	IsCompleted bool    `json:"is_completed"`
	Priority    *int    `json:"priority,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func keyPlanTasks(planID string) Key { return Key{"study-plan-tasks", planID} }

// PlanTasks fetches the tasks of a plan, cached under
// ["study-plan-tasks", planID]. An empty plan id returns an empty slice
// without touching the network; that guard is part of the contract, not an
// optimization.
func (c *Client) PlanTasks(ctx context.Context, planID string) ([]StudyTask, error) {
	if planID == "" {
		return []StudyTask{}, nil
	}

	value, err := c.cache.Fetch(keyPlanTasks(planID), c.cacheTTL, func() (interface{}, error) {
		tasks := []StudyTask{}
		if err := c.do(ctx, http.MethodGet, "/v1/study-plans/"+planID+"/tasks", nil, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]StudyTask), nil
}

// CreateTask creates a task and invalidates the affected plan's task list.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*StudyTask, error) {
	var task StudyTask
	if err := c.do(ctx, http.MethodPost, "/v1/study-tasks", req, &task); err != nil {
		return nil, err
	}
	if req.PlanID != nil {
		c.cache.Invalidate(keyPlanTasks(*req.PlanID))
	}
	return &task, nil
}

// UpdateTask replaces a task's fields and invalidates the plan's task list.
func (c *Client) UpdateTask(ctx context.Context, taskID, planID string, req UpdateTaskRequest) (*StudyTask, error) {
	var task StudyTask
	if err := c.do(ctx, http.MethodPut, "/v1/study-tasks/"+taskID, req, &task); err != nil {
		return nil, err
	}
	if planID != "" {
		c.cache.Invalidate(keyPlanTasks(planID))
	}
	return &task, nil
}

// SetTaskStatus toggles completion and invalidates the plan's task list.
func (c *Client) SetTaskStatus(ctx context.Context, taskID, planID string, isCompleted bool) error {
	payload := map[string]bool{"is_completed": isCompleted}
	if err := c.do(ctx, http.MethodPatch, "/v1/study-tasks/"+taskID+"/status", payload, nil); err != nil {
		return err
	}
	if planID != "" {
		c.cache.Invalidate(keyPlanTasks(planID))
	}
	return nil
}

// DeleteTask deletes a task and invalidates the plan's task list.
func (c *Client) DeleteTask(ctx context.Context, taskID, planID string) error {
	if err := c.do(ctx, http.MethodDelete, "/v1/study-tasks/"+taskID, nil, nil); err != nil {
		return err
	}
	if planID != "" {
		c.cache.Invalidate(keyPlanTasks(planID))
	}
	return nil
}
