//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/slint/depchangelog/internal/domain/entities"
	"github.com/slint/depchangelog/internal/domain/repositories"
)

// SpySourceLocator implements repositories.SourceLocator as a configurable spy.
type SpySourceLocator struct {
	// --- Locate ---
	Sources         map[string]repositories.SourceRepository // package name -> clone handle
	Identities      map[string]entities.Repository           // package name -> repository
	LocateErrs      map[string]error                         // package name -> forced error
	LocatedPackages []string

	// --- CacheDir ---
	CacheRoot string

	// --- CachedClones ---
	Clones    []string
	ClonesErr error

	// --- Clean ---
	CleanErr   error
	CleanCalls int
}

var _ repositories.SourceLocator = (*SpySourceLocator)(nil)

func (l *SpySourceLocator) Locate(
	_ context.Context,
	name string,
) (entities.Repository, repositories.SourceRepository, error) {
	l.LocatedPackages = append(l.LocatedPackages, name)
	if err, ok := l.LocateErrs[name]; ok {
		return entities.Repository{}, nil, err
	}
	source, ok := l.Sources[name]
	if !ok {
		return entities.Repository{}, nil, fmt.Errorf("no source stubbed for package: %s", name)
	}
	return l.Identities[name], source, nil
}

func (l *SpySourceLocator) CacheDir() string { return l.CacheRoot }

func (l *SpySourceLocator) CachedClones() ([]string, error) {
	return l.Clones, l.ClonesErr
}

func (l *SpySourceLocator) Clean() error {
	l.CleanCalls++
	return l.CleanErr
}
