package repositories

import (
	"context"

	"github.com/slint/depchangelog/internal/domain/entities"
)

// SourceLocator maps package names to their upstream repositories and
// maintains the on-disk cache of bare clones backing them.
type SourceLocator interface {
	// Locate derives the repository URL for a package name, clones it
	// into the cache on first use, and returns the repository identity
	// along with an open handle to the clone. Fails when no naming rule
	// matches the package.
	Locate(ctx context.Context, name string) (entities.Repository, SourceRepository, error)

	// CacheDir returns the root directory of the clone cache.
	CacheDir() string

	// CachedClones lists the normalized package names with a clone in the
	// cache, sorted alphabetically.
	CachedClones() ([]string, error)

	// Clean removes every cached clone.
	Clean() error
}
