package gogit

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ProjectRepository implements repositories.ProjectRepository on top of a
// local go-git worktree.
type ProjectRepository struct {
	repo *git.Repository
	root string
}

// NewProjectRepository opens the git repository enclosing dir, walking up
// parent directories until a .git directory is found.
func NewProjectRepository(dir string) (*ProjectRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository enclosing %q: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve worktree: %w", err)
	}

	return &ProjectRepository{repo: repo, root: worktree.Filesystem.Root()}, nil
}

// Root returns the absolute path of the repository's working tree.
func (r *ProjectRepository) Root() string {
	return r.root
}

// RelativePath converts a lock file path into the slash-separated,
// root-relative form used for tree lookups.
func (r *ProjectRepository) RelativePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %q against %q: %w", path, r.root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside the repository rooted at %q", path, r.root)
	}

	return filepath.ToSlash(rel), nil
}

// FileAtRevision returns the content of the file at the given commit-ish
// revision ("HEAD", a branch, a tag, or a hash).
func (r *ProjectRepository) FileAtRevision(revision, path string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %q: %w", revision, err)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("failed to read commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to read tree of commit %s: %w", hash, err)
	}

	file, err := tree.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to find %q at revision %q: %w", path, revision, err)
	}

	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %q at revision %q: %w", path, revision, err)
	}

	return content, nil
}
