package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/stepviz/internal/storage/sqlite"
)

type FixtureListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewFixtureListCommand returns the fixture list command.
func NewFixtureListCommand(rootCmd *RootCommand, fixtureCmd *kingpin.CmdClause) *FixtureListCommand {
	c := &FixtureListCommand{rootCmd: rootCmd}

	c.Cmd = fixtureCmd.Command("list", "List all stored fixtures.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c FixtureListCommand) Name() string { return c.Cmd.FullCommand() }

func (c FixtureListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	refs, err := repo.ListSequences(ctx)
	if err != nil {
		return fmt.Errorf("could not list fixtures: %w", err)
	}

	p := newPrinter(c.format, c.rootCmd)
	if err := p.PrintSequenceRefs(refs); err != nil {
		return fmt.Errorf("could not print fixtures: %w", err)
	}

	return nil
}
