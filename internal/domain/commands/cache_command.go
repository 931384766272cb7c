package commands

import (
	"context"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"

	"github.com/slint/depchangelog/internal/domain/entities"
	infraRepos "github.com/slint/depchangelog/internal/infrastructure/repositories"
)

// CacheAction selects a cache maintenance operation.
type CacheAction string

const (
	// CacheActionDir prints the cache directory path.
	CacheActionDir CacheAction = "dir"
	// CacheActionList prints the packages with a cached clone.
	CacheActionList CacheAction = "list"
	// CacheActionClean removes every cached clone.
	CacheActionClean CacheAction = "clean"
)

// Cache is the interface for the cache maintenance command.
type Cache interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CacheOptions) error
}

// CacheOptions holds runtime options for cache maintenance.
type CacheOptions struct {
	Action CacheAction
	Output io.Writer
}

// CacheCommand inspects and maintains the on-disk clone cache.
type CacheCommand struct {
	locatorFactory infraRepos.LocatorFactory
}

// NewCacheCommand creates a new CacheCommand with the given locator factory.
func NewCacheCommand(locatorFactory infraRepos.LocatorFactory) *CacheCommand {
	return &CacheCommand{locatorFactory: locatorFactory}
}

// Execute runs the selected cache maintenance action.
func (it *CacheCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts CacheOptions,
) error {
	cacheRoot, err := settings.ResolvedCacheDir()
	if err != nil {
		return err
	}
	locator := it.locatorFactory(cacheRoot, settings)

	switch opts.Action {
	case CacheActionDir:
		if _, writeErr := fmt.Fprintln(opts.Output, locator.CacheDir()); writeErr != nil {
			return fmt.Errorf("failed to write cache directory: %w", writeErr)
		}
		return nil

	case CacheActionList:
		names, listErr := locator.CachedClones()
		if listErr != nil {
			return listErr
		}
		for _, name := range names {
			if _, writeErr := fmt.Fprintln(opts.Output, name); writeErr != nil {
				return fmt.Errorf("failed to write cache listing: %w", writeErr)
			}
		}
		return nil

	case CacheActionClean:
		if names, listErr := locator.CachedClones(); listErr == nil {
			for _, name := range names {
				logger.Infof("Removing cached clone %s", name)
			}
		}
		if cleanErr := locator.Clean(); cleanErr != nil {
			return cleanErr
		}
		logger.Infof("Removed cached clones under %s", locator.CacheDir())
		return nil

	default:
		return fmt.Errorf("unknown cache action %q (expected dir, list, or clean)", opts.Action)
	}
}
