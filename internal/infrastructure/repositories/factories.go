package repositories

import (
	"github.com/slint/depchangelog/internal/domain/entities"
	domainRepos "github.com/slint/depchangelog/internal/domain/repositories"
)

// ProjectFactory opens the project repository enclosing the given directory.
// Commands receive a factory instead of a repository because the directory
// is only known at execution time.
type ProjectFactory func(dir string) (domainRepos.ProjectRepository, error)

// LocatorFactory builds a source locator bound to a cache root and the
// settings resolved for the current run.
type LocatorFactory func(cacheRoot string, settings *entities.Settings) domainRepos.SourceLocator
