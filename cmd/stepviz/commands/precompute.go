package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/stepviz/internal/app/precompute"
	"github.com/slok/stepviz/internal/storage/sqlite"
)

type PrecomputeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewPrecomputeCommand returns the precompute command.
func NewPrecomputeCommand(rootCmd *RootCommand, app *kingpin.Application) *PrecomputeCommand {
	c := &PrecomputeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("precompute", "Generate and persist fixtures for every registered algorithm.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c PrecomputeCommand) Name() string { return c.Cmd.FullCommand() }

func (c PrecomputeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cat, registry, eng, err := newRuntime(logger)
	if err != nil {
		return err
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := precompute.NewService(precompute.ServiceConfig{
		Registry:   registry,
		Catalog:    cat,
		Engine:     eng,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	refs, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("could not precompute fixtures: %w", err)
	}

	p := newPrinter(c.format, c.rootCmd)
	if err := p.PrintSequenceRefs(refs); err != nil {
		return fmt.Errorf("could not print fixtures: %w", err)
	}

	return nil
}
