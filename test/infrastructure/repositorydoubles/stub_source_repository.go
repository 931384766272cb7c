//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/slint/depchangelog/internal/domain/entities"
	"github.com/slint/depchangelog/internal/domain/repositories"
)

// SpySourceRepository implements repositories.SourceRepository as a configurable spy.
type SpySourceRepository struct {
	// --- identity ---
	RemoteURL    string
	OriginURLErr error

	// --- ResolveVersionTag ---
	Tags             map[string]*entities.Tag // normalized version -> tag
	ResolveErr       error
	ResolvedVersions []string

	// --- CommitMessages ---
	Messages      []string
	MessagesErr   error
	MessageRanges []MessageRange
}

// MessageRange records a single invocation of CommitMessages. From is empty
// when the lower bound was nil.
type MessageRange struct {
	From string
	To   string
}

var _ repositories.SourceRepository = (*SpySourceRepository)(nil)

func (s *SpySourceRepository) OriginURL() (string, error) {
	return s.RemoteURL, s.OriginURLErr
}

func (s *SpySourceRepository) ResolveVersionTag(
	_ context.Context,
	version *semver.Version,
) (*entities.Tag, error) {
	s.ResolvedVersions = append(s.ResolvedVersions, version.String())
	if s.ResolveErr != nil {
		return nil, s.ResolveErr
	}
	if tag, ok := s.Tags[version.String()]; ok {
		return tag, nil
	}
	return nil, repositories.ErrTagNotFound
}

func (s *SpySourceRepository) CommitMessages(
	_ context.Context,
	from, to *entities.Tag,
) ([]string, error) {
	span := MessageRange{}
	if from != nil {
		span.From = from.Name
	}
	if to != nil {
		span.To = to.Name
	}
	s.MessageRanges = append(s.MessageRanges, span)
	return s.Messages, s.MessagesErr
}
