package show

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/slok/critroute/internal/log"
	"github.com/slok/critroute/internal/model"
	"github.com/slok/critroute/internal/storage"
)

// ServiceConfig is the configuration for the show service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Show"})

	return nil
}

// Service gets a saved project schedule.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new show service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the show request parameters.
type Request struct {
	ProjectID string
}

// Run returns the schedule of a project.
func (s *Service) Run(ctx context.Context, req Request) (*model.ProjectSchedule, error) {
	if err := ValidateProjectID(req.ProjectID); err != nil {
		return nil, err
	}

	schedule, err := s.repo.GetProjectSchedule(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("project not found: %s: %w", req.ProjectID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	s.logger.Debugf("found project %s with %d tasks", req.ProjectID, len(schedule.Tasks))
	return schedule, nil
}

// ValidateProjectID checks the ID has the format of the generated project IDs.
func ValidateProjectID(id string) error {
	if id == "" {
		return fmt.Errorf("project id is required: %w", model.ErrNotValid)
	}
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("invalid project id %q: %w", id, model.ErrNotValid)
	}
	return nil
}
