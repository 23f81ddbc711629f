package handlers

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type taskJSON struct {
	ID          string  `json:"id"`
	PlanID      *string `json:"plan_id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	IsCompleted bool    `json:"is_completed"`
	Priority    *int    `json:"priority"`
}

func createTask(t *testing.T, app *fiber.App, token string, planID *string) taskJSON {
	t.Helper()
	payload := map[string]interface{}{
		"title":    "Review chapter 4",
		"due_date": time.Now().UTC().AddDate(0, 0, 3),
	}
	if planID != nil {
		payload["plan_id"] = *planID
	}
	resp := doJSON(t, app, "POST", "/v1/study-tasks/", token, payload)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Create task returned %d", resp.StatusCode)
	}
	var task taskJSON
	decodeData(t, resp, &task)
	return task
}

func TestCreateUnplannedTask(t *testing.T) {
	app, _ := setupApp(t)

	task := createTask(t, app, "token-alice", nil)
	if task.PlanID != nil {
		t.Errorf("Expected nil plan id, got %v", *task.PlanID)
	}
	if task.UserID != "user_alice" {
		t.Errorf("Task owner is %s, want user_alice", task.UserID)
	}
}

func TestCreateTaskRejectsForeignPlan(t *testing.T) {
	app, _ := setupApp(t)

	alicePlan := createPlan(t, app, "token-alice")

	payload := map[string]interface{}{
		"plan_id":  alicePlan.ID,
		"title":    "Sneaky task",
		"due_date": time.Now().UTC(),
	}
	resp := doJSON(t, app, "POST", "/v1/study-tasks/", "token-bob", payload)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Attaching to a foreign plan returned %d, want 403", resp.StatusCode)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	app, _ := setupApp(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"due_date": time.Now().UTC()}},
		{"missing due date", map[string]interface{}{"title": "No deadline"}},
		{"priority out of range", map[string]interface{}{
			"title": "Bad priority", "due_date": time.Now().UTC(), "priority": 5,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/v1/study-tasks/", "token-alice", tt.payload)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", resp.StatusCode)
			}
			if _, isForm := decodeError(t, resp); !isForm {
				t.Error("Validation failure should be flagged isFormError")
			}
		})
	}
}

func TestTaskStatusUpdatesPlanProgress(t *testing.T) {
	app, _ := setupApp(t)

	plan := createPlan(t, app, "token-alice")
	first := createTask(t, app, "token-alice", &plan.ID)
	createTask(t, app, "token-alice", &plan.ID)

	resp := doJSON(t, app, "PATCH", "/v1/study-tasks/"+first.ID+"/status", "token-alice",
		map[string]interface{}{"is_completed": true})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Status update returned %d", resp.StatusCode)
	}
	var updated taskJSON
	decodeData(t, resp, &updated)
	if !updated.IsCompleted {
		t.Error("Task not marked completed")
	}

	resp = doJSON(t, app, "GET", "/v1/study-plans/"+plan.ID, "token-alice", nil)
	var reloaded planJSON
	decodeData(t, resp, &reloaded)
	if reloaded.Progress != 50 {
		t.Errorf("Plan progress is %d, want 50", reloaded.Progress)
	}
}

func TestTaskStatusRequiresBody(t *testing.T) {
	app, _ := setupApp(t)
	task := createTask(t, app, "token-alice", nil)

	resp := doJSON(t, app, "PATCH", "/v1/study-tasks/"+task.ID+"/status", "token-alice",
		map[string]interface{}{})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Missing is_completed returned %d, want 400", resp.StatusCode)
	}
}

func TestUpdateTaskReplacesFields(t *testing.T) {
	app, _ := setupApp(t)
	task := createTask(t, app, "token-alice", nil)

	priority := 1
	resp := doJSON(t, app, "PUT", "/v1/study-tasks/"+task.ID, "token-alice", map[string]interface{}{
		"title":        "Review chapters 4 and 5",
		"due_date":     time.Now().UTC().AddDate(0, 0, 5),
		"is_completed": true,
		"priority":     priority,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Update returned %d", resp.StatusCode)
	}
	var updated taskJSON
	decodeData(t, resp, &updated)
	if updated.Title != "Review chapters 4 and 5" || !updated.IsCompleted {
		t.Errorf("Update not applied: %+v", updated)
	}
	if updated.Priority == nil || *updated.Priority != priority {
		t.Errorf("Priority not applied: %v", updated.Priority)
	}
}

func TestTaskOwnershipOnMutations(t *testing.T) {
	app, _ := setupApp(t)
	task := createTask(t, app, "token-alice", nil)

	resp := doJSON(t, app, "PATCH", "/v1/study-tasks/"+task.ID+"/status", "token-bob",
		map[string]interface{}{"is_completed": true})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Cross-user status update returned %d, want 403", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", "/v1/study-tasks/"+task.ID, "token-bob", nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Cross-user delete returned %d, want 403", resp.StatusCode)
	}
}

func TestListTasksWithFilters(t *testing.T) {
	app, _ := setupApp(t)

	plan := createPlan(t, app, "token-alice")
	planned := createTask(t, app, "token-alice", &plan.ID)
	unplanned := createTask(t, app, "token-alice", nil)

	doJSON(t, app, "PATCH", "/v1/study-tasks/"+unplanned.ID+"/status", "token-alice",
		map[string]interface{}{"is_completed": true})

	var tasks []taskJSON

	resp := doJSON(t, app, "GET", "/v1/study-tasks/", "token-alice", nil)
	decodeData(t, resp, &tasks)
	if len(tasks) != 2 {
		t.Errorf("Unfiltered list returned %d tasks, want 2", len(tasks))
	}

	resp = doJSON(t, app, "GET", "/v1/study-tasks/?plan_id="+plan.ID, "token-alice", nil)
	decodeData(t, resp, &tasks)
	if len(tasks) != 1 || tasks[0].ID != planned.ID {
		t.Errorf("Plan filter returned %d tasks", len(tasks))
	}

	resp = doJSON(t, app, "GET", "/v1/study-tasks/?status=true", "token-alice", nil)
	decodeData(t, resp, &tasks)
	if len(tasks) != 1 || tasks[0].ID != unplanned.ID {
		t.Errorf("Status filter returned %d tasks", len(tasks))
	}

	resp = doJSON(t, app, "GET", "/v1/study-tasks/?priority=9", "token-alice", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Out-of-range priority filter returned %d, want 400", resp.StatusCode)
	}
}

func TestDeleteTask(t *testing.T) {
	app, _ := setupApp(t)
	task := createTask(t, app, "token-alice", nil)

	resp := doJSON(t, app, "DELETE", "/v1/study-tasks/"+task.ID, "token-alice", nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("Delete returned %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/v1/study-tasks/"+task.ID, "token-alice", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Deleted task still readable: %d", resp.StatusCode)
	}
}
