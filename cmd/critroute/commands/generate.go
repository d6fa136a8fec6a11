package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/critroute/internal/app/generate"
	"github.com/slok/critroute/internal/cpm"
	"github.com/slok/critroute/internal/storage/io"
)

type GenerateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	projectFile string
	owner       string
	save        bool
	format      string
}

// NewGenerateCommand returns the generate command.
func NewGenerateCommand(rootCmd *RootCommand, app *kingpin.Application) *GenerateCommand {
	c := &GenerateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("generate", "Compute the critical path schedule of a project file.")
	c.Cmd.Arg("project-file", "Path to the project file (YAML, or TOML with the .toml extension).").Required().StringVar(&c.projectFile)
	c.Cmd.Flag("owner", "Owner of the project.").StringVar(&c.owner)
	c.Cmd.Flag("save", "Save the computed schedule.").BoolVar(&c.save)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c GenerateCommand) Name() string { return c.Cmd.FullCommand() }

func (c GenerateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Load the project file.
	path, err := filepath.Abs(c.projectFile)
	if err != nil {
		return fmt.Errorf("could not resolve project file path: %w", err)
	}
	projectRepo := io.NewProjectFileRepository(os.DirFS(filepath.Dir(path)))
	project, err := projectRepo.GetProject(ctx, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("could not load project: %w", err)
	}

	cfg := generate.ServiceConfig{
		NewEngine: cpm.NewEngine,
		Logger:    logger,
	}

	// Storage is only opened when saving.
	if c.save {
		repo, err := c.rootCmd.newRepository(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()
		cfg.Repository = repo
	}

	svc, err := generate.NewService(cfg)
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	schedule, err := svc.Generate(ctx, generate.GenerateOptions{
		Project: project,
		Owner:   c.owner,
		Save:    c.save,
	})
	if err != nil {
		return fmt.Errorf("could not generate schedule: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintSchedule(*schedule); err != nil {
		return fmt.Errorf("could not print schedule: %w", err)
	}

	return nil
}
