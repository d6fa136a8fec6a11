package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/critroute/internal/app/generate"
	"github.com/slok/critroute/internal/app/list"
	"github.com/slok/critroute/internal/app/remove"
	"github.com/slok/critroute/internal/app/show"
	"github.com/slok/critroute/internal/storage/io"
)

// LoadProjectFile reads and validates a project file, YAML or TOML (.toml extension).
//
// Returns [ErrNotValid] if the file content is not a valid project.
func (c *Client) LoadProjectFile(ctx context.Context, path string) (*ProjectInput, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve project file path: %w", err)
	}

	repo := io.NewProjectFileRepository(os.DirFS(filepath.Dir(abs)))
	p, err := repo.GetProject(ctx, filepath.Base(abs))
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProjectInput(p)
	return &result, nil
}

// Generate computes the schedule of a project, and saves it when [GenerateOpts].Save is set.
//
// Returns [ErrNotValid] if the project is not valid or its tasks depend on each other in a cycle.
func (c *Client) Generate(ctx context.Context, opts GenerateOpts) (*Schedule, error) {
	svc, err := generate.NewService(generate.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	s, err := svc.Generate(ctx, generate.GenerateOptions{
		Project: toInternalProjectInput(opts.Project),
		Owner:   opts.Owner,
		Save:    opts.Save,
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSchedule(*s)
	return &result, nil
}

// ListProjects returns the saved projects, newest first.
// Pass nil opts to list every project.
func (c *Client) ListProjects(ctx context.Context, opts *ListProjectsOpts) ([]Project, error) {
	svc, err := list.NewService(list.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := list.Request{}
	if opts != nil {
		req.Owner = opts.Owner
	}

	projects, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	result := make([]Project, 0, len(projects))
	for _, p := range projects {
		result = append(result, fromInternalProject(p))
	}
	return result, nil
}

// GetSchedule returns the schedule of a saved project.
//
// Returns [ErrNotFound] if the project does not exist.
func (c *Client) GetSchedule(ctx context.Context, projectID string) (*Schedule, error) {
	svc, err := show.NewService(show.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	s, err := svc.Run(ctx, show.Request{ProjectID: projectID})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSchedule(*s)
	return &result, nil
}

// RemoveProject removes a saved project with its schedule.
//
// Returns [ErrNotFound] if the project does not exist.
func (c *Client) RemoveProject(ctx context.Context, projectID string) (*Project, error) {
	svc, err := remove.NewService(remove.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	p, err := svc.Run(ctx, remove.Request{ProjectID: projectID})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProject(*p)
	return &result, nil
}
