package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slint/depchangelog/internal/domain/entities"
)

const pipfileLockContent = `{
    "_meta": {
        "hash": {"sha256": "0123abc"},
        "pipfile-spec": 6
    },
    "default": {
        "zappa": {"hashes": ["sha256:aaa"], "version": "==0.52.0"},
        "alembic": {"version": "==1.13.1"},
        "typing_extensions": {"version": "==4.12.2"}
    },
    "develop": {
        "pytest": {"version": "==8.0.0"}
    }
}`

func TestDetectLockfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		format    entities.Format
		expectErr bool
	}{
		{name: "Pipfile.lock", path: "project/Pipfile.lock", format: entities.FormatPipfileLock},
		{name: "requirements.txt", path: "requirements.txt", format: entities.FormatRequirements},
		{
			name:   "requirements variant",
			path:   "requirements-dev.txt",
			format: entities.FormatRequirements,
		},
		{name: "unsupported file", path: "setup.py", expectErr: true},
	}

	for _, test := range tests {
		t.Run("should detect "+test.name, func(t *testing.T) {
			t.Parallel()

			// when
			lockfile, err := entities.DetectLockfile(test.path)

			// then
			if test.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.path, lockfile.Path)
			assert.Equal(t, test.format, lockfile.Format)
		})
	}
}

func TestFindLockfile(t *testing.T) {
	t.Parallel()

	t.Run("should prefer Pipfile.lock when both formats exist", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Pipfile.lock"), []byte("{}"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte(""), 0o600))

		// when
		lockfile, err := entities.FindLockfile(dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.FormatPipfileLock, lockfile.Format)
		assert.Equal(t, filepath.Join(dir, "Pipfile.lock"), lockfile.Path)
	})

	t.Run("should fall back to requirements.txt", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte(""), 0o600))

		// when
		lockfile, err := entities.FindLockfile(dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.FormatRequirements, lockfile.Format)
	})

	t.Run("should fail when the directory has no lock file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		_, err := entities.FindLockfile(dir)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no lock file found")
	})
}

func TestParsePipfileLock(t *testing.T) {
	t.Parallel()

	lockfile := entities.Lockfile{Path: "Pipfile.lock", Format: entities.FormatPipfileLock}

	t.Run("should parse default packages in file order", func(t *testing.T) {
		t.Parallel()

		// when
		set, err := lockfile.ParsePackages(pipfileLockContent)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"zappa", "alembic", "typing-extensions"}, set.Names())
		version, ok := set.Version("alembic")
		require.True(t, ok)
		assert.Equal(t, "1.13.1", version.String())
	})

	t.Run("should ignore develop packages", func(t *testing.T) {
		t.Parallel()

		// when
		set, err := lockfile.ParsePackages(pipfileLockContent)

		// then
		require.NoError(t, err)
		_, ok := set.Version("pytest")
		assert.False(t, ok)
	})

	t.Run("should skip entries without a pinned version", func(t *testing.T) {
		t.Parallel()

		// given
		content := `{
    "default": {
        "local-pkg": {"editable": true, "path": "."},
        "requests": {"version": "==2.31.0"}
    }
}`

		// when
		set, err := lockfile.ParsePackages(content)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"requests"}, set.Names())
	})

	t.Run("should parse identically on repeated runs", func(t *testing.T) {
		t.Parallel()

		// when
		first, err := lockfile.ParsePackages(pipfileLockContent)
		require.NoError(t, err)
		second, err := lockfile.ParsePackages(pipfileLockContent)
		require.NoError(t, err)

		// then
		assert.Equal(t, first.Names(), second.Names())
		assert.Empty(t, entities.DiffPackages(first, second))
	})

	t.Run("should fail when the default section is missing", func(t *testing.T) {
		t.Parallel()

		// given
		content := `{"_meta": {}, "develop": {}}`

		// when
		_, err := lockfile.ParsePackages(content)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"default"`)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := lockfile.ParsePackages(`{"default": {`)

		// then
		require.Error(t, err)
	})

	t.Run("should fail on an unparsable version", func(t *testing.T) {
		t.Parallel()

		// given
		content := `{"default": {"broken": {"version": "==not.a.version"}}}`

		// when
		_, err := lockfile.ParsePackages(content)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"broken"`)
	})
}

func TestParseRequirements(t *testing.T) {
	t.Parallel()

	lockfile := entities.Lockfile{Path: "requirements.txt", Format: entities.FormatRequirements}

	t.Run("should parse pins and skip comments", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# production pins\nrequests == 2.31.0\nFlask==3.0.2\ntyping_extensions==4.12.2\n"

		// when
		set, err := lockfile.ParsePackages(content)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"requests", "flask", "typing-extensions"}, set.Names())
		version, ok := set.Version("flask")
		require.True(t, ok)
		assert.Equal(t, "3.0.2", version.String())
	})

	t.Run("should accept two-part versions", func(t *testing.T) {
		t.Parallel()

		// when
		set, err := lockfile.ParsePackages("requests==2.31\n")

		// then
		require.NoError(t, err)
		version, ok := set.Version("requests")
		require.True(t, ok)
		assert.Equal(t, "2.31.0", version.String())
	})

	t.Run("should handle windows line endings", func(t *testing.T) {
		t.Parallel()

		// when
		set, err := lockfile.ParsePackages("requests==2.31.0\r\nflask==3.0.2\r\n")

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
	})

	t.Run("should fail on a line without separator", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := lockfile.ParsePackages("requests==2.31.0\nnot-pinned\n")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not-pinned")
	})

	t.Run("should fail on an unparsable version", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := lockfile.ParsePackages("requests==two.dot.thirty\n")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"requests"`)
	})
}
