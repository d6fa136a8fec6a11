package list

import (
	"context"
	"fmt"

	"github.com/slok/critroute/internal/log"
	"github.com/slok/critroute/internal/model"
	"github.com/slok/critroute/internal/storage"
)

// ServiceConfig is the configuration for the list service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.List"})

	return nil
}

// Service lists saved projects with optional filtering.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// Owner is an optional filter to only show the projects of an owner.
	Owner string
	// StatusFilter is an optional filter to only show projects with this status.
	StatusFilter *model.ProjectStatus
}

// Run lists the projects, newest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Project, error) {
	s.logger.Debugf("listing projects with owner %q and status filter: %v", req.Owner, req.StatusFilter)

	projects, err := s.repo.ListProjects(ctx, req.Owner)
	if err != nil {
		return nil, fmt.Errorf("could not list projects: %w", err)
	}

	if req.StatusFilter != nil {
		filtered := make([]model.Project, 0, len(projects))
		for _, p := range projects {
			if p.Status == *req.StatusFilter {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	s.logger.Debugf("found %d projects", len(projects))
	return projects, nil
}
