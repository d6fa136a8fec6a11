package model

import (
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not-started"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Assignee is a person responsible for a task.
type Assignee struct {
	ID   string
	Name string
}

// Task is a unit of work of a project with its PERT estimates and the
// schedule computed for it.
//
// Two tasks are the same task when their numbers match, see [Task.Equal].
type Task struct {
	ID          string
	Number      int
	ProjectID   string
	Label       string
	Description string

	// PERT estimates, in project time units.
	Optimistic  float64
	MostLikely  float64
	Pessimistic float64

	// Decimals is the rounding precision inherited from the project configuration.
	Decimals int

	Duration    float64
	EarlyStart  float64
	EarlyFinish float64
	LateStart   float64
	LateFinish  float64
	Slack       float64

	StartDate  time.Time
	FinishDate time.Time

	Status    TaskStatus
	Assignees []Assignee
}

// NewTask returns a not started task with its schedule zeroed.
func NewTask(number int, cfg ProjectConfig, label string, optimistic, mostLikely, pessimistic float64, description string, assignees []Assignee) *Task {
	return &Task{
		Number:      number,
		Label:       label,
		Description: description,
		Optimistic:  optimistic,
		MostLikely:  mostLikely,
		Pessimistic: pessimistic,
		Decimals:    cfg.Decimals,
		StartDate:   cfg.StartDate,
		FinishDate:  cfg.StartDate,
		Status:      TaskStatusNotStarted,
		Assignees:   assignees,
	}
}

// NewEmptyTask returns a placeholder task with number 0 and everything zeroed.
func NewEmptyTask() *Task {
	return &Task{Status: TaskStatusNotStarted}
}

// ComputeDuration sets the PERT expected duration:
// (optimistic + 4*mostLikely + pessimistic) / 6, rounded to the task decimals.
func (t *Task) ComputeDuration() {
	t.Duration = Round((t.Optimistic+4*t.MostLikely+t.Pessimistic)/6, t.Decimals)
}

// Equal reports whether both tasks have the same number.
func (t Task) Equal(other Task) bool { return t.Number == other.Number }

// IsCritical reports whether the task has no slack.
func (t Task) IsCritical() bool { return t.Slack == 0 }

// AssigneeNames returns the names of the task assignees in order.
func (t Task) AssigneeNames() []string {
	names := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		names = append(names, a.Name)
	}
	return names
}

// Dependency is a directed edge between two tasks, Parent must finish before Child starts.
type Dependency struct {
	Parent int
	Child  int
}
