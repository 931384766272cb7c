package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/slint/depchangelog/internal/domain/commands"
	"github.com/slint/depchangelog/internal/domain/entities"
)

// CacheController handles the "cache" subcommand (clone cache maintenance).
type CacheController struct {
	command commands.Cache
}

// NewCacheController creates a new CacheController.
func NewCacheController(command commands.Cache) *CacheController {
	return &CacheController{command: command}
}

// GetBind returns the Cobra command metadata for the cache controller.
func (it *CacheController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "cache [dir|list|clean]",
		Short: "Inspect or clean the dependency clone cache",
		Long: `Maintain the on-disk cache of bare dependency clones.

  cache dir    Print the cache directory (the default action)
  cache list   List the packages with a cached clone
  cache clean  Remove every cached clone`,
	}
}

// Execute runs the selected cache action, defaulting to printing the
// cache directory.
func (it *CacheController) Execute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	configPath, _ := cmd.Flags().GetString("config")
	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	action := commands.CacheActionDir
	if len(args) > 0 {
		action = commands.CacheAction(args[0])
	}

	return it.command.Execute(ctx, settings, commands.CacheOptions{
		Action: action,
		Output: cmd.OutOrStdout(),
	})
}
