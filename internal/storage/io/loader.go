package io

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/slok/critroute/internal/model"
)

// Accepted start date layouts, ISO first.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ProjectFileRepository loads project files, TOML when the file has the
// .toml extension and YAML otherwise.
type ProjectFileRepository struct {
	fs fs.FS
}

// NewProjectFileRepository creates a new project file repository.
func NewProjectFileRepository(filesystem fs.FS) *ProjectFileRepository {
	return &ProjectFileRepository{fs: filesystem}
}

// GetProject loads a project file and returns a validated domain model.
func (r *ProjectFileRepository) GetProject(ctx context.Context, filePath string) (model.ProjectInput, error) {
	data, err := fs.ReadFile(r.fs, filePath)
	if err != nil {
		return model.ProjectInput{}, fmt.Errorf("reading project file: %w", err)
	}

	if ctx.Err() != nil {
		return model.ProjectInput{}, ctx.Err()
	}

	var pf ProjectFile
	if strings.EqualFold(path.Ext(filePath), ".toml") {
		if err := toml.Unmarshal(data, &pf); err != nil {
			return model.ProjectInput{}, fmt.Errorf("parsing TOML: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &pf); err != nil {
		return model.ProjectInput{}, fmt.Errorf("parsing YAML: %w", err)
	}

	p, err := pf.toModel()
	if err != nil {
		return model.ProjectInput{}, fmt.Errorf("invalid project file: %w", err)
	}

	return p, nil
}

// ProjectFile represents the structure of a project file.
type ProjectFile struct {
	Title           string       `yaml:"title" toml:"title"`
	Description     string       `yaml:"description" toml:"description"`
	StartDate       dateField    `yaml:"start_date" toml:"start_date"`
	TimeUnit        string       `yaml:"time_unit" toml:"time_unit"`
	WorkHoursPerDay int          `yaml:"work_hours_per_day" toml:"work_hours_per_day"`
	Decimals        *int         `yaml:"decimals,omitempty" toml:"decimals"`
	Tasks           []TaskConfig `yaml:"tasks" toml:"tasks"`
}

// TaskConfig represents the structure of a task.
type TaskConfig struct {
	ID           *int     `yaml:"id" toml:"id"`
	Name         string   `yaml:"name" toml:"name"`
	Description  string   `yaml:"description" toml:"description"`
	Optimistic   *float64 `yaml:"optimistic" toml:"optimistic"`
	MostLikely   *float64 `yaml:"most_likely" toml:"most_likely"`
	Pessimistic  *float64 `yaml:"pessimistic" toml:"pessimistic"`
	Assignees    []string `yaml:"assignees" toml:"assignees"`
	Predecessors []int    `yaml:"predecessors" toml:"predecessors"`
}

// dateField keeps the raw start date, native YAML and TOML dates are
// accepted as well as quoted ones.
type dateField string

func (d *dateField) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("start_date must be a date")
	}
	*d = dateField(n.Value)
	return nil
}

func (d *dateField) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*d = dateField(v)
	case time.Time:
		*d = dateField(v.Format(dateLayouts[0]))
	default:
		return fmt.Errorf("start_date must be a date")
	}
	return nil
}

func (p ProjectFile) toModel() (model.ProjectInput, error) {
	if strings.TrimSpace(p.Title) == "" {
		return model.ProjectInput{}, fmt.Errorf("title is required: %w", model.ErrNotValid)
	}

	cfg, err := p.config()
	if err != nil {
		return model.ProjectInput{}, err
	}

	tasks, err := p.tasks()
	if err != nil {
		return model.ProjectInput{}, err
	}

	return model.ProjectInput{
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Config:      cfg,
		Tasks:       tasks,
	}, nil
}

func (p ProjectFile) config() (model.ProjectConfig, error) {
	startDate, err := parseDate(string(p.StartDate))
	if err != nil {
		return model.ProjectConfig{}, err
	}

	cfg := model.ProjectConfig{
		StartDate:       startDate,
		TimeUnit:        model.TimeUnit(p.TimeUnit),
		WorkHoursPerDay: p.WorkHoursPerDay,
		Decimals:        model.DefaultDecimals,
	}
	if p.Decimals != nil {
		cfg.Decimals = *p.Decimals
	}

	if err := cfg.Validate(); err != nil {
		return model.ProjectConfig{}, err
	}

	return cfg, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("start_date is required: %w", model.ErrNotValid)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("start_date %q must be formatted as %s: %w", s, strings.Join(dateLayouts, " or "), model.ErrNotValid)
}

func (p ProjectFile) tasks() ([]model.TaskRecord, error) {
	if len(p.Tasks) == 0 {
		return nil, fmt.Errorf("at least one task is required: %w", model.ErrNotValid)
	}

	ids := map[int]bool{}
	for i, t := range p.Tasks {
		if t.ID == nil {
			return nil, fmt.Errorf("task at position %d: id is required: %w", i, model.ErrNotValid)
		}
		if *t.ID <= 0 {
			return nil, fmt.Errorf("task %d: id must be positive: %w", *t.ID, model.ErrNotValid)
		}
		if ids[*t.ID] {
			return nil, fmt.Errorf("task %d: id is repeated: %w", *t.ID, model.ErrNotValid)
		}
		ids[*t.ID] = true
	}

	records := make([]model.TaskRecord, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if err := t.validate(ids); err != nil {
			return nil, fmt.Errorf("task %d: %w", *t.ID, err)
		}
		records = append(records, t.toModel())
	}

	return records, nil
}

func (t TaskConfig) validate(ids map[int]bool) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required: %w", model.ErrNotValid)
	}

	estimates := []struct {
		name  string
		value *float64
	}{
		{"optimistic", t.Optimistic},
		{"most_likely", t.MostLikely},
		{"pessimistic", t.Pessimistic},
	}
	for _, e := range estimates {
		if e.value == nil {
			return fmt.Errorf("%s estimate is required: %w", e.name, model.ErrNotValid)
		}
		if *e.value < 0 {
			return fmt.Errorf("%s estimate can't be negative: %w", e.name, model.ErrNotValid)
		}
	}

	for _, p := range t.Predecessors {
		if !ids[p] {
			return fmt.Errorf("predecessor %d doesn't exist: %w", p, model.ErrNotValid)
		}
	}

	return nil
}

func (t TaskConfig) toModel() model.TaskRecord {
	var assignees []string
	for _, a := range t.Assignees {
		if a = strings.TrimSpace(a); a != "" {
			assignees = append(assignees, a)
		}
	}

	return model.TaskRecord{
		Number:       *t.ID,
		Label:        strings.TrimSpace(t.Name),
		Description:  t.Description,
		Optimistic:   *t.Optimistic,
		MostLikely:   *t.MostLikely,
		Pessimistic:  *t.Pessimistic,
		Assignees:    assignees,
		Predecessors: t.Predecessors,
	}
}
