package commands

import (
	"fmt"

	"github.com/slok/stepviz/internal/algorithms"
	"github.com/slok/stepviz/internal/catalog"
	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/printer"
)

// newRuntime wires the catalog, the producer registry and the engine, the
// pieces every generation command needs.
func newRuntime(logger log.Logger) (*catalog.Catalog, *algorithms.Registry, *engine.Engine, error) {
	cat, err := catalog.New(catalog.Config{Logger: logger})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not load catalog: %w", err)
	}

	registry := algorithms.NewRegistry()

	eng, err := engine.NewEngine(engine.Config{Logger: logger})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create engine: %w", err)
	}

	return cat, registry, eng, nil
}

// newPrinter selects the output printer for a command's --format flag.
func newPrinter(format string, rootCmd *RootCommand) printer.Printer {
	switch format {
	case "json":
		return printer.NewJSONPrinter(rootCmd.Stdout)
	default: // table
		return printer.NewTablePrinter(rootCmd.Stdout)
	}
}
