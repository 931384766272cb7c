//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"path/filepath"

	"github.com/slint/depchangelog/internal/domain/repositories"
)

// SpyProjectRepository implements repositories.ProjectRepository as a configurable spy.
type SpyProjectRepository struct {
	// --- identity ---
	RootDir string

	// --- RelativePath ---
	RelativePathErr error

	// --- FileAtRevision ---
	FileContents       map[string]string // "revision:path" -> content
	FileAtRevisionErr  error
	RequestedRevisions []string
}

var _ repositories.ProjectRepository = (*SpyProjectRepository)(nil)

func (p *SpyProjectRepository) Root() string { return p.RootDir }

// RelativePath reduces the path to its base name, which is where test lock
// files live relative to the fake repository root.
func (p *SpyProjectRepository) RelativePath(path string) (string, error) {
	if p.RelativePathErr != nil {
		return "", p.RelativePathErr
	}
	return filepath.ToSlash(filepath.Base(path)), nil
}

func (p *SpyProjectRepository) FileAtRevision(revision, path string) (string, error) {
	p.RequestedRevisions = append(p.RequestedRevisions, revision)
	if p.FileContents != nil {
		if content, ok := p.FileContents[revision+":"+path]; ok {
			return content, nil
		}
	}
	if p.FileAtRevisionErr != nil {
		return "", p.FileAtRevisionErr
	}
	return "", fmt.Errorf("no content for %s at %s", path, revision)
}
