package lib

import (
	"errors"
	"time"

	"github.com/slok/critroute/internal/model"
)

// TimeUnit is the unit the task estimates are expressed in.
type TimeUnit string

const (
	// TimeUnitHours estimates are in work hours, calendar days are derived
	// using [ProjectConfig].WorkHoursPerDay.
	TimeUnitHours TimeUnit = "Horas"
	// TimeUnitDays estimates are in days.
	TimeUnitDays TimeUnit = "Dias"
)

// ProjectConfig is the scheduling configuration of a project.
type ProjectConfig struct {
	// StartDate is the calendar date of the project start.
	StartDate time.Time
	// TimeUnit is the unit of the estimates.
	TimeUnit TimeUnit
	// WorkHoursPerDay is required when TimeUnit is [TimeUnitHours].
	WorkHoursPerDay int
	// Decimals is the rounding precision of every computed value.
	Decimals int
}

// TaskInput is a task to schedule.
type TaskInput struct {
	// Number identifies the task in the project, it must be positive.
	Number      int
	Label       string
	Description string
	// PERT estimates.
	Optimistic  float64
	MostLikely  float64
	Pessimistic float64
	// Assignees are people names, the same name is the same person.
	Assignees []string
	// Predecessors are the numbers of the tasks that must finish before this one starts.
	Predecessors []int
}

// ProjectInput is a project to schedule.
type ProjectInput struct {
	Title       string
	Description string
	Config      ProjectConfig
	Tasks       []TaskInput
}

// GenerateOpts are the options for [Client.Generate].
type GenerateOpts struct {
	Project ProjectInput
	Owner   string
	// Save stores the schedule so it can be retrieved later.
	Save bool
}

// ListProjectsOpts are the options for [Client.ListProjects].
type ListProjectsOpts struct {
	// Owner filters the projects of an owner.
	Owner string
}

// Project is a scheduled project.
type Project struct {
	// ID is the unique identifier (ULID) assigned at generation.
	ID          string
	Owner       string
	Title       string
	Description string
	Status      string
	Config      ProjectConfig
	CreatedAt   time.Time
}

// Task is a scheduled task.
type Task struct {
	ID          string
	Number      int
	Label       string
	Description string

	Optimistic  float64
	MostLikely  float64
	Pessimistic float64

	Duration    float64
	EarlyStart  float64
	EarlyFinish float64
	LateStart   float64
	LateFinish  float64
	Slack       float64

	StartDate  time.Time
	FinishDate time.Time

	Status string
	// Critical is true when the task is on the critical path.
	Critical bool
	// Parents and Children are the numbers of the direct predecessors and successors.
	Parents   []int
	Children  []int
	Assignees []string
}

// Schedule is the computed schedule of a project.
type Schedule struct {
	Project Project
	// Tasks are sorted by number, the synthetic start and end tasks included.
	Tasks []Task
	// CriticalPath are the numbers of the tasks without slack.
	CriticalPath []int
	// Duration is the expected duration of the project.
	Duration float64
}

func toInternalProjectInput(p ProjectInput) model.ProjectInput {
	tasks := make([]model.TaskRecord, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, model.TaskRecord{
			Number:       t.Number,
			Label:        t.Label,
			Description:  t.Description,
			Optimistic:   t.Optimistic,
			MostLikely:   t.MostLikely,
			Pessimistic:  t.Pessimistic,
			Assignees:    t.Assignees,
			Predecessors: t.Predecessors,
		})
	}

	return model.ProjectInput{
		Title:       p.Title,
		Description: p.Description,
		Config:      toInternalProjectConfig(p.Config),
		Tasks:       tasks,
	}
}

func toInternalProjectConfig(c ProjectConfig) model.ProjectConfig {
	return model.ProjectConfig{
		StartDate:       c.StartDate,
		TimeUnit:        model.TimeUnit(c.TimeUnit),
		WorkHoursPerDay: c.WorkHoursPerDay,
		Decimals:        c.Decimals,
	}
}

func fromInternalProjectConfig(c model.ProjectConfig) ProjectConfig {
	return ProjectConfig{
		StartDate:       c.StartDate,
		TimeUnit:        TimeUnit(c.TimeUnit),
		WorkHoursPerDay: c.WorkHoursPerDay,
		Decimals:        c.Decimals,
	}
}

func fromInternalProjectInput(p model.ProjectInput) ProjectInput {
	tasks := make([]TaskInput, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, TaskInput{
			Number:       t.Number,
			Label:        t.Label,
			Description:  t.Description,
			Optimistic:   t.Optimistic,
			MostLikely:   t.MostLikely,
			Pessimistic:  t.Pessimistic,
			Assignees:    t.Assignees,
			Predecessors: t.Predecessors,
		})
	}

	return ProjectInput{
		Title:       p.Title,
		Description: p.Description,
		Config:      fromInternalProjectConfig(p.Config),
		Tasks:       tasks,
	}
}

func fromInternalProject(p model.Project) Project {
	return Project{
		ID:          p.ID,
		Owner:       p.Owner,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		Config:      fromInternalProjectConfig(p.Config),
		CreatedAt:   p.CreatedAt,
	}
}

func fromInternalSchedule(s model.ProjectSchedule) Schedule {
	critical := map[int]bool{}
	for _, n := range s.CriticalPath {
		critical[n] = true
	}

	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, Task{
			ID:          t.ID,
			Number:      t.Number,
			Label:       t.Label,
			Description: t.Description,
			Optimistic:  t.Optimistic,
			MostLikely:  t.MostLikely,
			Pessimistic: t.Pessimistic,
			Duration:    t.Duration,
			EarlyStart:  t.EarlyStart,
			EarlyFinish: t.EarlyFinish,
			LateStart:   t.LateStart,
			LateFinish:  t.LateFinish,
			Slack:       t.Slack,
			StartDate:   t.StartDate,
			FinishDate:  t.FinishDate,
			Status:      string(t.Status),
			Critical:    critical[t.Number],
			Parents:     t.Parents,
			Children:    t.Children,
			Assignees:   t.AssigneeNames(),
		})
	}

	return Schedule{
		Project:      fromInternalProject(s.Project),
		Tasks:        tasks,
		CriticalPath: s.CriticalPath,
		Duration:     s.Duration,
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

// mappedError keeps the internal error message and chain while matching a public sentinel.
type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool { return target == e.sentinel }

func (e *mappedError) Unwrap() error { return e.original }
