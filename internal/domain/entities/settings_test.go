package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slint/depchangelog/internal/domain/entities"
)

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveToken(t *testing.T) {
	t.Run("should return empty string for empty input", func(t *testing.T) {
		t.Parallel()

		// given
		raw := ""

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should return inline token unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "ghp_abc123xyz"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "ghp_abc123xyz", result)
	})

	t.Run("should expand environment variable reference", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_TOKEN_RESOLVE", "my-secret-token")
		raw := "${TEST_TOKEN_RESOLVE}"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "my-secret-token", result)
	})

	t.Run("should expand env var embedded in string", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_PARTIAL_TOKEN", "secret")
		raw := "prefix-${TEST_PARTIAL_TOKEN}-suffix"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "prefix-secret-suffix", result)
	})

	t.Run("should return empty for unset env var", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "${DEFINITELY_NOT_SET_VAR_12345}"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should read token from file when path exists", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		tokenFile := filepath.Join(tmpDir, "token.key")
		err := os.WriteFile(tokenFile, []byte("  file-based-token  \n"), 0o600)
		require.NoError(t, err)

		// when
		result := entities.ResolveToken(tokenFile)

		// then
		assert.Equal(t, "file-based-token", result)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("should fail when message filter is not a valid pattern", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{MessageFilter: "(["}

		// when
		err := entities.Validate(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "message_filter")
	})

	t.Run("should fail when an organization rule has no prefix", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Organizations: []entities.OrganizationRule{
				{URL: "https://github.com/acme"},
			},
		}

		// when
		err := entities.Validate(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "organizations[0].prefix is required")
	})

	t.Run("should fail when an organization rule has no url", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Organizations: []entities.OrganizationRule{
				{Prefix: "acme-", URL: "https://github.com/acme"},
				{Prefix: "widget-"},
			},
		}

		// when
		err := entities.Validate(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "organizations[1].url is required")
	})

	t.Run("should pass with valid configuration", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			MessageFilter: entities.DefaultMessageFilter,
			Organizations: []entities.OrganizationRule{
				{Prefix: "acme-", URL: "https://github.com/acme"},
			},
		}

		// when
		err := entities.Validate(settings)

		// then
		require.NoError(t, err)
	})
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestNewSettings(t *testing.T) {
	t.Run("should load a full config file", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depchangelog.yaml")
		content := `
cache_dir: "/var/cache/deps"
message_filter: "^wip"
auth:
  token: "inline-token"
organizations:
  - prefix: "acme-"
    url: "https://github.com/acme"
`
		err := os.WriteFile(cfgFile, []byte(content), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/var/cache/deps", settings.CacheDir)
		assert.Equal(t, "^wip", settings.MessageFilter)
		assert.Equal(t, "inline-token", settings.Auth.Token)
		require.Len(t, settings.Organizations, 1)
		assert.Equal(t, "acme-", settings.Organizations[0].Prefix)
		assert.Equal(t, "https://github.com/acme", settings.Organizations[0].URL)
	})

	t.Run("should keep defaults for absent keys", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depchangelog.yaml")
		err := os.WriteFile(cfgFile, []byte(`cache_dir: "/var/cache/deps"`), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultMessageFilter, settings.MessageFilter)
		require.Len(t, settings.Organizations, 1)
		assert.Equal(t, "invenio-", settings.Organizations[0].Prefix)
	})

	t.Run("should expand env vars in token during load", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_LOAD_TOKEN", "expanded-token-value")
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depchangelog.yaml")
		content := `
auth:
  token: "${TEST_LOAD_TOKEN}"
`
		err := os.WriteFile(cfgFile, []byte(content), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.NoError(t, err)
		assert.Equal(t, "expanded-token-value", settings.Auth.Token)
	})

	t.Run("should fail for nonexistent config file", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.NewSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depchangelog.yaml")
		err := os.WriteFile(cfgFile, []byte("cache_dir: [unclosed"), 0o600)
		require.NoError(t, err)

		// when
		_, err = entities.NewSettings(cfgFile)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("should fail when the file carries an invalid filter", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depchangelog.yaml")
		err := os.WriteFile(cfgFile, []byte(`message_filter: "(["`), 0o600)
		require.NoError(t, err)

		// when
		_, err = entities.NewSettings(cfgFile)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "message_filter")
	})
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	t.Run("should carry the builtin filter and naming rule", func(t *testing.T) {
		t.Parallel()

		// when
		settings := entities.DefaultSettings()

		// then
		assert.Equal(t, entities.DefaultMessageFilter, settings.MessageFilter)
		require.Len(t, settings.Organizations, 1)
		assert.Equal(t, "invenio-", settings.Organizations[0].Prefix)
		assert.Equal(t, "https://github.com/inveniosoftware", settings.Organizations[0].URL)
	})
}

func TestResolvedCacheDir(t *testing.T) {
	t.Parallel()

	t.Run("should return the configured directory unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{CacheDir: "/var/cache/deps"}

		// when
		dir, err := settings.ResolvedCacheDir()

		// then
		require.NoError(t, err)
		assert.Equal(t, "/var/cache/deps", dir)
	})

	t.Run("should fall back to the user cache directory", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{}
		base, err := os.UserCacheDir()
		require.NoError(t, err)

		// when
		dir, err := settings.ResolvedCacheDir()

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "depchangelog"), dir)
	})
}

//nolint:paralleltest // subtests use t.Chdir which is incompatible with t.Parallel
func TestFindConfigFile(t *testing.T) {
	t.Run("should find a config file in the working directory", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Chdir()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".depchangelog.yaml"), []byte(""), 0o600))
		t.Chdir(dir)

		// when
		path, err := entities.FindConfigFile()

		// then
		require.NoError(t, err)
		assert.Equal(t, ".depchangelog.yaml", path)
	})

	t.Run("should prefer the hidden spelling", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Chdir()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".depchangelog.yaml"), []byte(""), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "depchangelog.yml"), []byte(""), 0o600))
		t.Chdir(dir)

		// when
		path, err := entities.FindConfigFile()

		// then
		require.NoError(t, err)
		assert.Equal(t, ".depchangelog.yaml", path)
	})
}
