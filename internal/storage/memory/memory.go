package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/slok/critroute/internal/log"
	"github.com/slok/critroute/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	schedules map[string]model.ProjectSchedule
	mu        sync.RWMutex
	logger    log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		schedules: make(map[string]model.ProjectSchedule),
		logger:    cfg.Logger,
	}, nil
}

// CreateProjectSchedule stores a project with its computed tasks.
func (r *Repository) CreateProjectSchedule(ctx context.Context, s model.ProjectSchedule) error {
	if s.Project.ID == "" {
		return fmt.Errorf("project id is required: %w", model.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[s.Project.ID]; ok {
		return fmt.Errorf("project %s: %w", s.Project.ID, model.ErrAlreadyExists)
	}

	r.schedules[s.Project.ID] = copySchedule(s)
	r.logger.Debugf("Created project schedule in repository: %s", s.Project.ID)

	return nil
}

// GetProjectSchedule retrieves a project schedule by project ID.
func (r *Repository) GetProjectSchedule(ctx context.Context, projectID string) (*model.ProjectSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schedules[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, model.ErrNotFound)
	}

	sc := copySchedule(s)
	return &sc, nil
}

// ListProjects returns the projects of an owner, newest first.
func (r *Repository) ListProjects(ctx context.Context, owner string) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]model.Project, 0, len(r.schedules))
	for _, s := range r.schedules {
		if owner != "" && s.Project.Owner != owner {
			continue
		}
		projects = append(projects, s.Project)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

// DeleteProject deletes a project and its tasks.
func (r *Repository) DeleteProject(ctx context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[projectID]; !ok {
		return fmt.Errorf("project %s: %w", projectID, model.ErrNotFound)
	}

	delete(r.schedules, projectID)
	r.logger.Debugf("Deleted project from repository: %s", projectID)

	return nil
}

// copySchedule returns a deep copy so callers can't mutate the stored data.
func copySchedule(s model.ProjectSchedule) model.ProjectSchedule {
	sc := s
	sc.CriticalPath = slices.Clone(s.CriticalPath)
	sc.Tasks = make([]model.ScheduledTask, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tc := t
		tc.Parents = slices.Clone(t.Parents)
		tc.Children = slices.Clone(t.Children)
		tc.Assignees = slices.Clone(t.Assignees)
		sc.Tasks = append(sc.Tasks, tc)
	}
	return sc
}
