package entities

import (
	"github.com/Masterminds/semver/v3"
)

// Bump classifies the severity of a version transition.
type Bump int

const (
	// BumpNone is any transition that is not an upgrade (downgrades,
	// pre-release or metadata-only changes).
	BumpNone Bump = iota

	// BumpNew marks a dependency with no previous version.
	BumpNew

	// BumpMajor marks an increase of the major version.
	BumpMajor

	// BumpMinor marks an increase of the minor version with the major
	// version unchanged.
	BumpMinor

	// BumpPatch marks an increase of only the patch version.
	BumpPatch
)

// BumpFor classifies the transition from previous to current. A nil previous
// means the dependency was newly introduced.
func BumpFor(previous, current *semver.Version) Bump {
	switch {
	case previous == nil:
		return BumpNew
	case current.Major() > previous.Major():
		return BumpMajor
	case current.Major() == previous.Major() && current.Minor() > previous.Minor():
		return BumpMinor
	case current.Major() == previous.Major() && current.Minor() == previous.Minor() &&
		current.Patch() > previous.Patch():
		return BumpPatch
	default:
		return BumpNone
	}
}

// Icon returns the marker rendered next to the version transition in report
// headers, or an empty string when the transition has no severity.
func (b Bump) Icon() string {
	switch b {
	case BumpNew:
		return "✨"
	case BumpMajor:
		return "⚠️"
	case BumpMinor:
		return "🌈"
	case BumpPatch:
		return "🐛"
	default:
		return ""
	}
}
