package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/critroute/internal/app/show"
	"github.com/slok/critroute/internal/log"
	"github.com/slok/critroute/internal/model"
	"github.com/slok/critroute/internal/storage"
)

// ServiceConfig is the configuration for the remove service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Remove"})

	return nil
}

// Service removes a saved project.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the remove request parameters.
type Request struct {
	ProjectID string
}

// Run removes a project with its tasks and returns the removed project.
func (s *Service) Run(ctx context.Context, req Request) (*model.Project, error) {
	s.logger.Debugf("removing project: %s", req.ProjectID)

	if err := show.ValidateProjectID(req.ProjectID); err != nil {
		return nil, err
	}

	schedule, err := s.repo.GetProjectSchedule(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("project not found: %s: %w", req.ProjectID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	if err := s.repo.DeleteProject(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("could not delete project from repository: %w", err)
	}

	s.logger.Infof("removed project: %s (ID: %s)", schedule.Project.Title, schedule.Project.ID)
	return &schedule.Project, nil
}
