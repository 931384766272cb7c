//go:build integration || unit || test

// Package gitfixtures builds throwaway git repositories for tests. All
// fixtures use a fixed author identity and caller-supplied timestamps so
// history order stays deterministic.
package gitfixtures //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// RequireUploadPack skips the test when the git-upload-pack binary backing
// go-git's file transport is not installed.
func RequireUploadPack(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack is not installed")
	}
}

// Epoch is the base timestamp fixtures count from.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // fixture constant

// Signature returns the fixture author identity at the given time.
func Signature(when time.Time) *object.Signature {
	return &object.Signature{
		Name:  "Test Author",
		Email: "author@example.com",
		When:  when,
	}
}

// Init creates a new repository with a working tree at dir.
func Init(t *testing.T, dir string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return repo
}

// CommitFile writes content to name inside the working tree at dir and
// commits it with the given message and timestamp.
func CommitFile(
	t *testing.T,
	repo *git.Repository,
	dir, name, content, message string,
	when time.Time,
) plumbing.Hash {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(name)
	require.NoError(t, err)

	hash, err := worktree.Commit(message, &git.CommitOptions{Author: Signature(when)})
	require.NoError(t, err)
	return hash
}

// LightTag creates a lightweight tag pointing at hash.
func LightTag(t *testing.T, repo *git.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	_, err := repo.CreateTag(name, hash, nil)
	require.NoError(t, err)
}

// AnnotatedTag creates an annotated tag pointing at hash.
func AnnotatedTag(
	t *testing.T,
	repo *git.Repository,
	name string,
	hash plumbing.Hash,
	when time.Time,
) {
	t.Helper()
	_, err := repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  Signature(when),
		Message: "release " + name,
	})
	require.NoError(t, err)
}
