package repositories

import (
	"go.uber.org/dig"

	"github.com/slint/depchangelog/internal/domain/entities"
	domainRepos "github.com/slint/depchangelog/internal/domain/repositories"
	"github.com/slint/depchangelog/internal/infrastructure/repositories/gogit"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register the factory opening the project repository under inspection
	if err := container.Provide(func() ProjectFactory {
		return func(dir string) (domainRepos.ProjectRepository, error) {
			return gogit.NewProjectRepository(dir)
		}
	}); err != nil {
		return err
	}

	// Register the factory building the clone-cache locator
	if err := container.Provide(func() LocatorFactory {
		return func(cacheRoot string, settings *entities.Settings) domainRepos.SourceLocator {
			return NewCachingSourceLocator(cacheRoot, settings)
		}
	}); err != nil {
		return err
	}

	return nil
}
