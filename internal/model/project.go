package model

import (
	"fmt"
	"time"
)

// TimeUnit is the unit the task estimates are expressed in.
type TimeUnit string

const (
	TimeUnitHours TimeUnit = "Horas"
	TimeUnitDays  TimeUnit = "Dias"
)

// DefaultDecimals is the rounding precision used when none is configured.
const DefaultDecimals = 2

// ProjectStatus represents the status of a project.
type ProjectStatus string

const (
	ProjectStatusEnabled  ProjectStatus = "enabled"
	ProjectStatusDisabled ProjectStatus = "disabled"
)

// ProjectConfig is the scheduling configuration of a project.
type ProjectConfig struct {
	StartDate       time.Time
	TimeUnit        TimeUnit
	WorkHoursPerDay int
	Decimals        int
}

// Validate validates the project configuration.
func (c ProjectConfig) Validate() error {
	if c.StartDate.IsZero() {
		return fmt.Errorf("start date is required: %w", ErrNotValid)
	}

	switch c.TimeUnit {
	case TimeUnitHours:
		if c.WorkHoursPerDay <= 0 {
			return fmt.Errorf("work hours per day must be positive when time unit is %q: %w", c.TimeUnit, ErrNotValid)
		}
	case TimeUnitDays:
	default:
		return fmt.Errorf("unknown time unit %q: %w", c.TimeUnit, ErrNotValid)
	}

	if c.Decimals < 0 {
		return fmt.Errorf("decimals can't be negative: %w", ErrNotValid)
	}

	return nil
}

// Project is a set of tasks scheduled together.
type Project struct {
	ID          string
	Owner       string
	Title       string
	Description string
	Status      ProjectStatus
	Config      ProjectConfig
	CreatedAt   time.Time
}

// ScheduledTask is a computed task with the numbers of its direct
// predecessors and successors.
type ScheduledTask struct {
	Task
	Parents  []int
	Children []int
}

// ProjectSchedule is the result of a CPM computation of a project.
type ProjectSchedule struct {
	Project Project
	// Tasks are sorted by number and include the synthetic start and end tasks.
	Tasks        []ScheduledTask
	CriticalPath []int
	// Duration is the expected duration of the whole project.
	Duration float64
}

// Dependencies returns every parent to child edge of the schedule ordered by child and then by parent position.
func (s ProjectSchedule) Dependencies() []Dependency {
	var deps []Dependency
	for _, t := range s.Tasks {
		for _, p := range t.Parents {
			deps = append(deps, Dependency{Parent: p, Child: t.Number})
		}
	}
	return deps
}

// Assignees returns the schedule assignees without duplicates, people are
// identified by name and kept in first seen order.
func (s ProjectSchedule) Assignees() []Assignee {
	seen := map[string]bool{}
	var assignees []Assignee
	for _, t := range s.Tasks {
		for _, a := range t.Assignees {
			if seen[a.Name] {
				continue
			}
			seen[a.Name] = true
			assignees = append(assignees, a)
		}
	}
	return assignees
}

// Task returns the scheduled task with the given number.
func (s ProjectSchedule) Task(number int) (*ScheduledTask, error) {
	for i := range s.Tasks {
		if s.Tasks[i].Number == number {
			return &s.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("task %d: %w", number, ErrNotFound)
}
