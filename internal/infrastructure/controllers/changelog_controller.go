package controllers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/slint/depchangelog/internal/domain/commands"
	"github.com/slint/depchangelog/internal/domain/entities"
)

// ChangelogController handles the root command (and its "generate" alias):
// diff the lock file and write the changelog.
type ChangelogController struct {
	changelog commands.Changelog
	cache     commands.Cache
}

// NewChangelogController creates a new ChangelogController.
func NewChangelogController(changelog commands.Changelog, cache commands.Cache) *ChangelogController {
	return &ChangelogController{changelog: changelog, cache: cache}
}

// GetBind returns the Cobra command metadata for the changelog controller.
func (it *ChangelogController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "generate [lockfile]",
		Short: "Generate a changelog from dependency lock file changes",
		Long: `Diff a dependency lock file (Pipfile.lock or requirements*.txt) between
two revisions of the enclosing git repository, then for every upgraded
dependency list the commit messages between its two version tags.

Dependency repositories are cloned bare and blob-filtered into a local
cache on first use and reused on every later run.`,
	}
}

// Execute generates the changelog, or prints the cache directory when
// --cache-dir is set.
func (it *ChangelogController) Execute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")
	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	if printCacheDir, _ := cmd.Flags().GetBool("cache-dir"); printCacheDir {
		return it.cache.Execute(ctx, settings, commands.CacheOptions{
			Action: commands.CacheActionDir,
			Output: cmd.OutOrStdout(),
		})
	}

	output, cleanup, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	lockfilePath := ""
	if len(args) > 0 {
		lockfilePath = args[0]
	}

	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")
	packageFilter, _ := cmd.Flags().GetString("package-filter")

	// The config file's filter applies unless the flag was set explicitly,
	// so --message-filter "" disables filtering altogether.
	messageFilter := settings.MessageFilter
	if cmd.Flags().Changed("message-filter") {
		messageFilter, _ = cmd.Flags().GetString("message-filter")
	}

	return it.changelog.Execute(ctx, settings, commands.ChangelogOptions{
		LockfilePath:  lockfilePath,
		Since:         since,
		Until:         until,
		PackageFilter: packageFilter,
		MessageFilter: messageFilter,
		Output:        output,
		Verbose:       verbose,
	})
}

// AddFlags adds the changelog-specific flags to the given Cobra command.
func (it *ChangelogController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("since", "", "The tag or commit the diff starts from (default: HEAD)")
	cmd.Flags().String("until", "", "The tag or commit the diff ends at (default: working copy)")
	cmd.Flags().String("package-filter", "",
		"A regular expression keeping only matching packages")
	cmd.Flags().String("message-filter", entities.DefaultMessageFilter,
		"A regular expression dropping matching commit messages")
	cmd.Flags().StringP("output", "o", "-",
		"The file to write the changelog to (\"-\" for stdout)")
	cmd.Flags().Bool("cache-dir", false, "Print the cache directory and exit")
}

// openOutput resolves the --output flag into a writer, "-" meaning the
// command's stdout. The returned cleanup closes the file when one was opened.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output file %q: %w", path, err)
	}
	return file, func() { _ = file.Close() }, nil
}
