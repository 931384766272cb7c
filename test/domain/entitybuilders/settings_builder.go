//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/slint/depchangelog/internal/domain/entities"
)

// SettingsBuilder helps create test settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	cacheDir      string
	messageFilter string
	token         string
	organizations []entities.OrganizationRule
}

// NewSettingsBuilder creates a new settings builder with sensible defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		cacheDir:      "/tmp/depchangelog-cache",
		messageFilter: entities.DefaultMessageFilter,
	}
}

// WithCacheDir sets the cache directory.
func (b *SettingsBuilder) WithCacheDir(dir string) *SettingsBuilder {
	b.cacheDir = dir
	return b
}

// WithMessageFilter sets the commit message filter pattern.
func (b *SettingsBuilder) WithMessageFilter(pattern string) *SettingsBuilder {
	b.messageFilter = pattern
	return b
}

// WithToken sets the authentication token.
func (b *SettingsBuilder) WithToken(token string) *SettingsBuilder {
	b.token = token
	return b
}

// WithOrganizationRule appends a package-prefix naming rule.
func (b *SettingsBuilder) WithOrganizationRule(prefix, url string) *SettingsBuilder {
	b.organizations = append(b.organizations, entities.OrganizationRule{Prefix: prefix, URL: url})
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	return &entities.Settings{
		CacheDir:      b.cacheDir,
		MessageFilter: b.messageFilter,
		Auth:          entities.AuthSettings{Token: b.token},
		Organizations: append([]entities.OrganizationRule(nil), b.organizations...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.cacheDir = "/tmp/depchangelog-cache"
	b.messageFilter = entities.DefaultMessageFilter
	b.token = ""
	b.organizations = nil
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		cacheDir:      b.cacheDir,
		messageFilter: b.messageFilter,
		token:         b.token,
		organizations: append([]entities.OrganizationRule(nil), b.organizations...),
	}
}
