//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/slint/depchangelog/internal/domain/commands"
	"github.com/slint/depchangelog/internal/domain/entities"
)

// StubCacheCommand is a stub implementation of commands.Cache.
type StubCacheCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.CacheOptions
}

var _ commands.Cache = (*StubCacheCommand)(nil)

func (s *StubCacheCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.CacheOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
