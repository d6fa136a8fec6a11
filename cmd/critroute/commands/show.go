package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/critroute/internal/app/show"
)

type ShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	projectID string
	format    string
}

// NewShowCommand returns the show command.
func NewShowCommand(rootCmd *RootCommand, app *kingpin.Application) *ShowCommand {
	c := &ShowCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("show", "Show the schedule of a saved project.")
	c.Cmd.Arg("id", "Project ID.").Required().StringVar(&c.projectID)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c ShowCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := show.NewService(show.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	schedule, err := svc.Run(ctx, show.Request{ProjectID: c.projectID})
	if err != nil {
		return fmt.Errorf("could not get project: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintSchedule(*schedule); err != nil {
		return fmt.Errorf("could not print schedule: %w", err)
	}

	return nil
}
