//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/slint/depchangelog/internal/domain/commands"
	"github.com/slint/depchangelog/internal/domain/entities"
)

// StubChangelogCommand is a stub implementation of commands.Changelog.
type StubChangelogCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.ChangelogOptions
}

var _ commands.Changelog = (*StubChangelogCommand)(nil)

func (s *StubChangelogCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.ChangelogOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
