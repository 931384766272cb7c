package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/semver/v3"

	"github.com/slint/depchangelog/internal/domain/entities"
)

// ErrTagNotFound reports that no tag matching a requested version exists in
// a dependency repository, even after refreshing remote refs once.
var ErrTagNotFound = errors.New("tag not found")

// SourceRepository is a cached clone of one dependency's upstream
// repository: the tag namespace and commit history a changelog is
// generated from.
type SourceRepository interface {
	// OriginURL returns the URL of the "origin" remote the clone was
	// created from.
	OriginURL() (string, error)

	// ResolveVersionTag finds the tag matching the given version, trying
	// the exact version string, its "v"-prefixed form, then a scan of all
	// tags with leading "v"s stripped. Lookups are local first; on a miss
	// remote refs are fetched once and the lookup retried before giving
	// up with ErrTagNotFound.
	ResolveVersionTag(ctx context.Context, version *semver.Version) (*entities.Tag, error)

	// CommitMessages returns the whitespace-trimmed messages of commits
	// reachable from "to" but not from "from", newest first. A nil "from"
	// removes the lower bound so every ancestor of "to" is included.
	CommitMessages(ctx context.Context, from, to *entities.Tag) ([]string, error)
}
