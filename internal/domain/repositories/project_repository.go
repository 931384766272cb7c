package repositories

// ProjectRepository reads lock file content out of the history of the
// project under inspection. Implementations wrap the git repository that
// encloses the lock file on disk.
type ProjectRepository interface {
	// Root returns the absolute path of the repository's working tree.
	Root() string

	// RelativePath converts a lock file path into the slash-separated,
	// root-relative form used for tree lookups.
	RelativePath(path string) (string, error)

	// FileAtRevision returns the content of the file at the given
	// commit-ish revision ("HEAD", a branch, a tag, or a hash). The path
	// must be root-relative as produced by RelativePath.
	FileAtRevision(revision, path string) (string, error)
}
