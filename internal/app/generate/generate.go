package generate

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/critroute/internal/cpm"
	"github.com/slok/critroute/internal/log"
	"github.com/slok/critroute/internal/model"
	"github.com/slok/critroute/internal/storage"
)

// ServiceConfig is the configuration for the generate service.
type ServiceConfig struct {
	// NewEngine returns a fresh engine per generation, engines are one-shot.
	NewEngine func() cpm.Engine
	// Repository is optional, only required to save the generated schedules.
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.NewEngine == nil {
		c.NewEngine = cpm.NewEngine
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Generate"})
	return nil
}

// Service computes project schedules.
type Service struct {
	newEngine func() cpm.Engine
	repo      storage.Repository
	logger    log.Logger
}

// NewService creates a new generate service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		newEngine: cfg.NewEngine,
		repo:      cfg.Repository,
		logger:    cfg.Logger,
	}, nil
}

// GenerateOptions are the options for generating a project schedule.
type GenerateOptions struct {
	Project model.ProjectInput
	Owner   string
	// Save stores the computed schedule in the repository.
	Save bool
}

// Generate computes the CPM schedule of a project and optionally saves it.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (*model.ProjectSchedule, error) {
	if opts.Save && s.repo == nil {
		return nil, fmt.Errorf("repository is required to save schedules")
	}

	// 1. Build the graph.
	engine := s.newEngine()
	if err := engine.SetProjectConfig(opts.Project.Config); err != nil {
		return nil, fmt.Errorf("invalid project config: %w", err)
	}

	assignees := map[string]model.Assignee{}
	for _, r := range opts.Project.Tasks {
		t := model.NewTask(r.Number, opts.Project.Config, r.Label, r.Optimistic, r.MostLikely, r.Pessimistic, r.Description, taskAssignees(r.Assignees, assignees))
		t.ID = newID()
		if err := engine.AddTask(t); err != nil {
			return nil, fmt.Errorf("could not add task %d: %w", r.Number, err)
		}
	}

	for _, r := range opts.Project.Tasks {
		for _, p := range r.Predecessors {
			if err := engine.ConnectTasks(p, r.Number); err != nil {
				return nil, fmt.Errorf("could not connect task %d to %d: %w", p, r.Number, err)
			}
		}
	}

	// 2. Compute.
	if err := engine.ComputeCPM(); err != nil {
		return nil, fmt.Errorf("could not compute CPM: %w", err)
	}

	// The critical path is read before the nodes, once the nodes are read
	// the synthetic tasks are part of the graph.
	critical := engine.FindCriticalPath()
	nodes := engine.GetNodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("engine returned no nodes")
	}

	// 3. Flatten.
	project := model.Project{
		ID:          newID(),
		Owner:       opts.Owner,
		Title:       opts.Project.Title,
		Description: opts.Project.Description,
		Status:      model.ProjectStatusEnabled,
		Config:      opts.Project.Config,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	schedule := newSchedule(project, nodes, critical)

	s.logger.Infof("Computed project %q: %d tasks, %d critical, duration %v", project.Title, len(opts.Project.Tasks), len(schedule.CriticalPath), schedule.Duration)

	// 4. Save.
	if opts.Save {
		if err := s.repo.CreateProjectSchedule(ctx, *schedule); err != nil {
			return nil, fmt.Errorf("could not save schedule: %w", err)
		}
		s.logger.Infof("Saved project: %s", project.ID)
	}

	return schedule, nil
}

// taskAssignees returns the assignees of a task, people with the same name
// share the same ID across the project.
func taskAssignees(names []string, known map[string]model.Assignee) []model.Assignee {
	var assignees []model.Assignee
	for _, name := range names {
		a, ok := known[name]
		if !ok {
			a = model.Assignee{ID: newID(), Name: name}
			known[name] = a
		}
		assignees = append(assignees, a)
	}
	return assignees
}

func newSchedule(project model.Project, nodes []*cpm.Node, critical []*model.Task) *model.ProjectSchedule {
	s := &model.ProjectSchedule{
		Project: project,
		Tasks:   make([]model.ScheduledTask, 0, len(nodes)),
		// Nodes are sorted by number, the last one is the end task.
		Duration: nodes[len(nodes)-1].Task.EarlyFinish,
	}

	for _, n := range nodes {
		t := *n.Task
		t.ProjectID = project.ID
		if t.ID == "" {
			t.ID = newID()
		}
		s.Tasks = append(s.Tasks, model.ScheduledTask{
			Task:     t,
			Parents:  slices.Clone(n.Parents),
			Children: slices.Clone(n.Children),
		})
	}

	for _, t := range critical {
		s.CriticalPath = append(s.CriticalPath, t.Number)
	}

	return s
}

func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
