package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/critroute/internal/app/list"
	"github.com/slok/critroute/internal/model"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	owner        string
	statusFilter string
	format       string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List saved projects.")
	c.Cmd.Flag("owner", "Filter by owner.").StringVar(&c.owner)
	c.Cmd.Flag("status", "Filter by status (enabled, disabled).").StringVar(&c.statusFilter)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Parse status filter if provided.
	var statusFilter *model.ProjectStatus
	if c.statusFilter != "" {
		status := model.ProjectStatus(strings.ToLower(c.statusFilter))
		switch status {
		case model.ProjectStatusEnabled, model.ProjectStatusDisabled:
			statusFilter = &status
		default:
			return fmt.Errorf("invalid status filter: %s (must be: enabled, disabled)", c.statusFilter)
		}
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	projects, err := svc.Run(ctx, list.Request{
		Owner:        c.owner,
		StatusFilter: statusFilter,
	})
	if err != nil {
		return fmt.Errorf("could not list projects: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintProjectList(projects); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
