package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/stepviz/internal/app/generate"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage/sqlite"
)

type GenerateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	algorithmID string
	inputsJSON  string
	maxSteps    int
	format      string
	save        bool
}

// NewGenerateCommand returns the generate command.
func NewGenerateCommand(rootCmd *RootCommand, app *kingpin.Application) *GenerateCommand {
	c := &GenerateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("generate", "Generate a validated step sequence for an algorithm.")
	c.Cmd.Arg("algorithm-id", "Algorithm ID (see `stepviz list`).").Required().StringVar(&c.algorithmID)
	c.Cmd.Flag("inputs", "Run inputs as a JSON object. Defaults to the catalog defaults.").StringVar(&c.inputsJSON)
	c.Cmd.Flag("max-steps", "Maximum number of steps before the run is aborted (0 uses the engine default).").IntVar(&c.maxSteps)
	c.Cmd.Flag("format", "Output format (table, json).").Default("json").EnumVar(&c.format, "table", "json")
	c.Cmd.Flag("save", "Persist the generated sequence as a fixture.").BoolVar(&c.save)

	return c
}

func (c GenerateCommand) Name() string { return c.Cmd.FullCommand() }

func (c GenerateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	var inputs model.Inputs
	if c.inputsJSON != "" {
		if err := json.Unmarshal([]byte(c.inputsJSON), &inputs); err != nil {
			return fmt.Errorf("invalid --inputs JSON: %w", err)
		}
	}

	cat, registry, eng, err := newRuntime(logger)
	if err != nil {
		return err
	}

	svc, err := generate.NewService(generate.ServiceConfig{
		Registry: registry,
		Catalog:  cat,
		Engine:   eng,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	seq, err := svc.Run(ctx, generate.Request{
		AlgorithmID: c.algorithmID,
		Inputs:      inputs,
		MaxSteps:    c.maxSteps,
	})
	if err != nil {
		return fmt.Errorf("could not generate sequence: %w", err)
	}

	if c.save {
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: c.rootCmd.DBPath,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create repository: %w", err)
		}
		defer repo.Close()

		ref, err := repo.SaveSequence(ctx, *seq)
		if err != nil {
			return fmt.Errorf("could not save sequence: %w", err)
		}
		logger.Infof("Saved fixture %s for %s", ref.ID, ref.AlgorithmID)
	}

	p := newPrinter(c.format, c.rootCmd)
	if err := p.PrintSequence(*seq); err != nil {
		return fmt.Errorf("could not print sequence: %w", err)
	}

	return nil
}
