package entities_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slint/depchangelog/internal/domain/entities"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain lowercase name", input: "requests", expected: "requests"},
		{name: "underscores", input: "typing_extensions", expected: "typing-extensions"},
		{name: "dots", input: "zope.interface", expected: "zope-interface"},
		{name: "mixed case", input: "Flask-Login", expected: "flask-login"},
		{name: "separator runs", input: "some.__weird--name", expected: "some-weird-name"},
	}

	for _, test := range tests {
		t.Run("should canonicalize "+test.name, func(t *testing.T) {
			t.Parallel()

			// when
			result := entities.CanonicalName(test.input)

			// then
			assert.Equal(t, test.expected, result)
		})
	}

	t.Run("should be idempotent", func(t *testing.T) {
		t.Parallel()

		// given
		once := entities.CanonicalName("My_Package.Name")

		// when
		twice := entities.CanonicalName(once)

		// then
		assert.Equal(t, once, twice)
	})
}

func TestPackageSet(t *testing.T) {
	t.Parallel()

	t.Run("should keep names in insertion order", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewPackageSet()
		set.Pin("zappa", semver.MustParse("1.0.0"))
		set.Pin("alembic", semver.MustParse("2.0.0"))
		set.Pin("marshmallow", semver.MustParse("3.0.0"))

		// when
		names := set.Names()

		// then
		assert.Equal(t, []string{"zappa", "alembic", "marshmallow"}, names)
	})

	t.Run("should keep position when re-pinning a package", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewPackageSet()
		set.Pin("zappa", semver.MustParse("1.0.0"))
		set.Pin("alembic", semver.MustParse("2.0.0"))

		// when
		set.Pin("zappa", semver.MustParse("1.1.0"))

		// then
		assert.Equal(t, []string{"zappa", "alembic"}, set.Names())
		version, ok := set.Version("zappa")
		require.True(t, ok)
		assert.Equal(t, "1.1.0", version.String())
	})

	t.Run("should resolve lookups through any name spelling", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewPackageSet()
		set.Pin("Typing_Extensions", semver.MustParse("4.12.2"))

		// when
		version, ok := set.Version("typing-extensions")

		// then
		require.True(t, ok)
		assert.Equal(t, "4.12.2", version.String())
	})

	t.Run("should report absent packages", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewPackageSet()

		// when
		_, ok := set.Version("requests")

		// then
		assert.False(t, ok)
	})

	t.Run("should count distinct packages", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewPackageSet()
		set.Pin("requests", semver.MustParse("2.31.0"))
		set.Pin("Requests", semver.MustParse("2.32.0"))

		// when
		length := set.Len()

		// then
		assert.Equal(t, 1, length)
	})
}
