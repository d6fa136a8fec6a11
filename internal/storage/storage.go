package storage

import (
	"context"

	"github.com/slok/critroute/internal/model"
)

// Repository is the interface for computed project schedules persistence.
type Repository interface {
	CreateProjectSchedule(ctx context.Context, s model.ProjectSchedule) error
	GetProjectSchedule(ctx context.Context, projectID string) (*model.ProjectSchedule, error)
	// ListProjects returns the projects of an owner (all when empty), newest first.
	ListProjects(ctx context.Context, owner string) ([]model.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
}
