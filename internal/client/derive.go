package client

import (
	"math"
	"time"
)

// PlanPhase is where a plan sits relative to its date window.
type PlanPhase string

const (
	PhaseUpcoming  PlanPhase = "upcoming"
	PhaseActive    PlanPhase = "active"
	PhaseCompleted PlanPhase = "completed"
)

const msPerDay = 24 * 60 * 60 * 1000

// DaysUntilExam counts whole days from now to the exam, rounding partial
// days up. Past exams yield negative values.
func DaysUntilExam(examDate, now time.Time) int {
	diff := examDate.Sub(now).Milliseconds()
	return int(math.Ceil(float64(diff) / float64(msPerDay)))
}

// Phase classifies a plan against its start and end dates.
func (p StudyPlan) Phase(now time.Time) PlanPhase {
	switch {
	case now.Before(p.StartDate):
		return PhaseUpcoming
	case now.After(p.EndDate):
		return PhaseCompleted
	default:
		return PhaseActive
	}
}

// IsOverdue reports whether an incomplete task's due date has passed.
func (t StudyTask) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && t.DueDate.Before(now)
}

// UpcomingTasks returns the incomplete tasks due within the next seven days.
func UpcomingTasks(tasks []StudyTask, now time.Time) []StudyTask {
	horizon := now.Add(7 * 24 * time.Hour)
	upcoming := []StudyTask{}
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		if t.DueDate.Before(now) || t.DueDate.After(horizon) {
			continue
		}
		upcoming = append(upcoming, t)
	}
	return upcoming
}

// Progress computes the completion percentage of a task set, rounded to the
// nearest whole percent. An empty set is 0.
func Progress(tasks []StudyTask) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.IsCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}

// PriorityLabel maps a numeric task priority to its display label.
func PriorityLabel(priority *int) string {
	if priority == nil {
		return "None"
	}
	switch *priority {
	case 1:
		return "High"
	case 2:
		return "Medium"
	case 3:
		return "Low"
	default:
		return "None"
	}
}
