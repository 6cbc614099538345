package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/stepviz/internal/app/verify"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage/memory"
	"github.com/slok/stepviz/internal/storage/sqlite"
)

type VerifyCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	algorithmID string
	filePath    string
}

// NewVerifyCommand returns the verify command.
func NewVerifyCommand(rootCmd *RootCommand, app *kingpin.Application) *VerifyCommand {
	c := &VerifyCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("verify", "Re-validate a stored fixture or a sequence file.")
	c.Cmd.Arg("algorithm-id", "Algorithm ID of the stored fixture to verify.").StringVar(&c.algorithmID)
	c.Cmd.Flag("file", "Verify a sequence JSON file instead of a stored fixture.").StringVar(&c.filePath)

	return c
}

func (c VerifyCommand) Name() string { return c.Cmd.FullCommand() }

func (c VerifyCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	if c.filePath != "" {
		return c.runFile()
	}

	if c.algorithmID == "" {
		return fmt.Errorf("an algorithm ID or --file is required")
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := verify.NewService(verify.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	seq, err := svc.Run(ctx, verify.Request{AlgorithmID: c.algorithmID})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Fixture for %q is valid (%d steps).\n", seq.AlgorithmID, len(seq.Steps))

	return nil
}

func (c VerifyCommand) runFile() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}

	var seq model.StepSequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return fmt.Errorf("could not decode sequence: %w", err)
	}

	// The service only needs the repository for stored fixtures, an in-memory
	// one keeps the file path self-contained.
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}

	svc, err := verify.NewService(verify.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Sequence(&seq); err != nil {
		return err
	}

	fmt.Fprintf(c.rootCmd.Stdout, "File %q is valid (%d steps).\n", c.filePath, len(seq.Steps))

	return nil
}
