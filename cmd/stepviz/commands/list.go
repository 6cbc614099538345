package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/stepviz/internal/catalog"
	"github.com/slok/stepviz/internal/model"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	category string
	format   string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List the algorithms in the catalog.")
	c.Cmd.Flag("category", "Filter by category (classical, deep-learning, generative-ai, quantum).").StringVar(&c.category)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	category := model.AlgorithmCategory(c.category)
	if category != "" && !category.Valid() {
		return fmt.Errorf("invalid category filter: %s (must be: classical, deep-learning, generative-ai, quantum)", c.category)
	}

	cat, err := catalog.New(catalog.Config{Logger: logger})
	if err != nil {
		return fmt.Errorf("could not load catalog: %w", err)
	}

	infos := cat.List(category)

	p := newPrinter(c.format, c.rootCmd)
	if err := p.PrintCatalog(infos); err != nil {
		return fmt.Errorf("could not print catalog: %w", err)
	}

	return nil
}
