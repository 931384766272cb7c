package entities

import (
	"github.com/spf13/cobra"
)

// ControllerBind holds the Cobra metadata a controller is mounted under.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller adapts a domain command to the CLI layer. Execute returns an
// error only for fatal usage failures; per-package generation errors are
// reported and swallowed so one broken dependency never aborts a run.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, args []string) error
}
