package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/stepviz/internal/storage/sqlite"
)

type FixtureRmCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	algorithmID string
}

// NewFixtureRmCommand returns the fixture rm command.
func NewFixtureRmCommand(rootCmd *RootCommand, fixtureCmd *kingpin.CmdClause) *FixtureRmCommand {
	c := &FixtureRmCommand{rootCmd: rootCmd}

	c.Cmd = fixtureCmd.Command("rm", "Remove a stored fixture.")
	c.Cmd.Arg("algorithm-id", "Algorithm ID of the fixture to remove.").Required().StringVar(&c.algorithmID)

	return c
}

func (c FixtureRmCommand) Name() string { return c.Cmd.FullCommand() }

func (c FixtureRmCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	if err := repo.DeleteSequence(ctx, c.algorithmID); err != nil {
		return fmt.Errorf("could not remove fixture: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Fixture for %q removed.\n", c.algorithmID)

	return nil
}
