package commands

import (
	"github.com/alecthomas/kingpin/v2"
)

// NewFixtureCommand returns the fixture parent command.
func NewFixtureCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("fixture", "Manage stored fixtures.")
}
