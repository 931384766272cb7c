package controllers

import (
	"go.uber.org/dig"

	"github.com/slint/depchangelog/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewChangelogController); err != nil {
		return err
	}
	if err := container.Provide(NewCacheController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppContext.
func NewControllers(
	changelogController *ChangelogController,
	cacheController *CacheController,
) *[]entities.Controller {
	return &[]entities.Controller{
		changelogController,
		cacheController,
	}
}
