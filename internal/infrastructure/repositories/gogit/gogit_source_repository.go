package gogit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/protocol/packp"
	"github.com/go-git/go-git/v5/plumbing/transport"
	logger "github.com/sirupsen/logrus"
	modsemver "golang.org/x/mod/semver"

	"github.com/slint/depchangelog/internal/domain/entities"
	"github.com/slint/depchangelog/internal/domain/repositories"
)

// fetchRefSpec updates local branch heads straight from the remote's, the
// layout a bare clone starts with.
const fetchRefSpec = "+refs/heads/*:refs/heads/*"

// SourceRepository implements repositories.SourceRepository on top of a
// bare go-git clone.
type SourceRepository struct {
	repo *git.Repository
	auth transport.AuthMethod
}

// CloneSource creates a bare, blob-filtered clone of url at path. Transports
// that reject the filter (local paths, servers without filter support) get
// one unfiltered retry; on failure the half-created directory is removed so
// the next run starts clean.
func CloneSource(
	ctx context.Context,
	url, path string,
	auth transport.AuthMethod,
) (*SourceRepository, error) {
	options := &git.CloneOptions{
		URL:        url,
		RemoteName: git.DefaultRemoteName,
		Auth:       auth,
		Filter:     packp.FilterBlobNone(),
		Tags:       git.AllTags,
	}

	repo, err := git.PlainCloneContext(ctx, path, true, options)
	if err != nil {
		logger.Debugf("[source] Blob-filtered clone of %q failed (%v), retrying without filter", url, err)
		if removeErr := os.RemoveAll(path); removeErr != nil {
			return nil, fmt.Errorf("failed to reset clone directory %q: %w", path, removeErr)
		}

		options.Filter = ""
		repo, err = git.PlainCloneContext(ctx, path, true, options)
	}
	if err != nil {
		_ = os.RemoveAll(path)
		return nil, fmt.Errorf("failed to clone %q: %w", url, err)
	}

	return &SourceRepository{repo: repo, auth: auth}, nil
}

// OpenSource opens an existing cached clone at path.
func OpenSource(path string, auth transport.AuthMethod) (*SourceRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cached clone at %q: %w", path, err)
	}
	return &SourceRepository{repo: repo, auth: auth}, nil
}

// OriginURL returns the URL of the "origin" remote the clone was created from.
func (r *SourceRepository) OriginURL() (string, error) {
	remote, err := r.repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve the origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.New("origin remote has no URL configured")
	}
	return urls[0], nil
}

// ResolveVersionTag finds the tag matching the given version. Lookups are
// local first; on a miss remote refs are fetched once and the lookup retried
// before giving up with repositories.ErrTagNotFound.
func (r *SourceRepository) ResolveVersionTag(
	ctx context.Context,
	version *semver.Version,
) (*entities.Tag, error) {
	tag, err := r.lookupTag(version)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, repositories.ErrTagNotFound) {
		return nil, err
	}

	logger.Debugf("[source] No local tag for version %s, fetching refs", version.Original())
	if fetchErr := r.fetchRefs(ctx); fetchErr != nil {
		return nil, fetchErr
	}

	return r.lookupTag(version)
}

// CommitMessages walks the history from "to", excluding everything reachable
// from "from", and returns the whitespace-trimmed messages newest first.
func (r *SourceRepository) CommitMessages(
	ctx context.Context,
	from, to *entities.Tag,
) ([]string, error) {
	excluded, err := r.reachableFrom(ctx, from)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: to.Hash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from tag %q: %w", to.Name, err)
	}
	defer iter.Close()

	var messages []string
	walkErr := iter.ForEach(func(commit *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if excluded[commit.Hash] {
			return nil
		}
		messages = append(messages, strings.TrimSpace(commit.Message))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to iterate history from tag %q: %w", to.Name, walkErr)
	}

	return messages, nil
}

// reachableFrom collects the hashes of every commit reachable from the given
// tag. A nil tag yields a nil set, excluding nothing.
func (r *SourceRepository) reachableFrom(
	ctx context.Context,
	tag *entities.Tag,
) (map[plumbing.Hash]bool, error) {
	if tag == nil {
		return nil, nil
	}

	iter, err := r.repo.Log(&git.LogOptions{From: tag.Hash})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from tag %q: %w", tag.Name, err)
	}
	defer iter.Close()

	reachable := make(map[plumbing.Hash]bool)
	walkErr := iter.ForEach(func(commit *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		reachable[commit.Hash] = true
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to iterate history from tag %q: %w", tag.Name, walkErr)
	}

	return reachable, nil
}

// fetchRefs fetches branch heads and tags from every remote, keeping blob
// content out of the transfer where the transport allows it.
func (r *SourceRepository) fetchRefs(ctx context.Context) error {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}

	for _, remote := range remotes {
		name := remote.Config().Name
		options := &git.FetchOptions{
			RemoteName: name,
			RefSpecs:   []config.RefSpec{config.RefSpec(fetchRefSpec)},
			Auth:       r.auth,
			Filter:     packp.FilterBlobNone(),
			Tags:       git.AllTags,
		}

		fetchErr := remote.FetchContext(ctx, options)
		if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
			logger.Debugf("[source] Blob-filtered fetch from %q failed (%v), retrying without filter", name, fetchErr)
			options.Filter = ""
			fetchErr = remote.FetchContext(ctx, options)
		}
		if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to fetch from remote %q: %w", name, fetchErr)
		}
	}

	return nil
}

// lookupTag tries the candidate tag names for a version, then falls back to
// a scan of every tag with leading "v"s stripped.
func (r *SourceRepository) lookupTag(version *semver.Version) (*entities.Tag, error) {
	for _, name := range tagCandidates(version) {
		ref, err := r.repo.Tag(name)
		if errors.Is(err, git.ErrTagNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up tag %q: %w", name, err)
		}
		return r.peel(ref)
	}

	return r.scanTags(version)
}

// scanTags covers repositories whose tag names differ from the version
// string only by leading "v"s. Tags are visited in descending version order
// so the result is deterministic when several names strip down to the same
// version.
func (r *SourceRepository) scanTags(version *semver.Version) (*entities.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	byName := make(map[string]*plumbing.Reference)
	var names []string
	forEachErr := iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		byName[name] = ref
		names = append(names, name)
		return nil
	})
	if forEachErr != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", forEachErr)
	}

	sortVersionsDescending(names)

	for _, name := range names {
		stripped := strings.TrimLeft(name, "v")
		if stripped == version.String() || stripped == version.Original() {
			return r.peel(byName[name])
		}
	}

	return nil, fmt.Errorf("%w: no tag matches version %q", repositories.ErrTagNotFound, version.Original())
}

// peel resolves a tag reference to the commit it ultimately points at,
// unwrapping annotated tag objects.
func (r *SourceRepository) peel(ref *plumbing.Reference) (*entities.Tag, error) {
	name := ref.Name().Short()

	tagObj, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, commitErr := tagObj.Commit()
		if commitErr != nil {
			return nil, fmt.Errorf("failed to peel annotated tag %q: %w", name, commitErr)
		}
		return &entities.Tag{Name: name, Hash: commit.Hash}, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		// Lightweight tags point straight at a commit.
		return &entities.Tag{Name: name, Hash: ref.Hash()}, nil
	default:
		return nil, fmt.Errorf("failed to read tag %q: %w", name, err)
	}
}

// tagCandidates returns the tag names tried for an exact match, most likely
// first: the normalized version, its "v"-prefixed form, then the spelling
// from the lock file if it differs.
func tagCandidates(version *semver.Version) []string {
	candidates := []string{
		version.String(),
		"v" + version.String(),
		version.Original(),
	}
	if !strings.HasPrefix(version.Original(), "v") {
		candidates = append(candidates, "v"+version.Original())
	}

	seen := make(map[string]bool, len(candidates))
	unique := candidates[:0]
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		unique = append(unique, candidate)
	}
	return unique
}

// --- version sorting ---

func sortVersionsDescending(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		v1 := normalizeVersion(versions[i])
		v2 := normalizeVersion(versions[j])
		if modsemver.IsValid(v1) && modsemver.IsValid(v2) {
			return modsemver.Compare(v1, v2) > 0
		}
		return versions[i] > versions[j]
	})
}

func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
