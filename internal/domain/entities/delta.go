package entities

import (
	"github.com/Masterminds/semver/v3"
)

// PackageChange records a dependency whose pinned version differs between two
// lock file snapshots. Previous is nil for a newly introduced dependency.
type PackageChange struct {
	Name     string
	Previous *semver.Version
	Current  *semver.Version
}

// Bump classifies the severity of a change.
func (c PackageChange) Bump() Bump {
	return BumpFor(c.Previous, c.Current)
}

// DiffPackages returns the packages present in current whose version differs
// from (or is absent in) previous, in current's insertion order. Packages
// removed between the two snapshots are not reported.
func DiffPackages(previous, current *PackageSet) []PackageChange {
	var changes []PackageChange
	for _, name := range current.Names() {
		cur, _ := current.Version(name)
		prev, ok := previous.Version(name)
		if ok && prev.Equal(cur) {
			continue
		}
		changes = append(changes, PackageChange{Name: name, Previous: prev, Current: cur})
	}
	return changes
}
