package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewChangelogCommand); err != nil {
		return err
	}
	if err := container.Provide(NewCacheCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *ChangelogCommand) Changelog {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *CacheCommand) Cache {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
