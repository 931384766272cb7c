package entities

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// separatorRuns matches the character runs that canonicalization collapses:
// package ecosystems treat "-", "_" and "." in names as interchangeable.
var separatorRuns = regexp.MustCompile(`[-_.]+`)

// CanonicalName normalizes a package name to its canonical comparable form:
// separator runs collapse into a single "-" and the result is lowercased.
// Two spellings of one package always canonicalize to the same string.
func CanonicalName(name string) string {
	return strings.ToLower(separatorRuns.ReplaceAllString(name, "-"))
}

// PackageSet is an insertion-ordered mapping from canonical package name to
// pinned version. Iteration follows the order in which packages were first
// pinned, so a diff over two sets reports packages in lock file order.
type PackageSet struct {
	names    []string
	versions map[string]*semver.Version
}

// NewPackageSet creates an empty package set.
func NewPackageSet() *PackageSet {
	return &PackageSet{
		versions: make(map[string]*semver.Version),
	}
}

// Pin records a package at the given version. The name is canonicalized
// first; re-pinning a known package replaces its version but keeps its
// original position.
func (s *PackageSet) Pin(name string, version *semver.Version) {
	key := CanonicalName(name)
	if _, ok := s.versions[key]; !ok {
		s.names = append(s.names, key)
	}
	s.versions[key] = version
}

// Version returns the pinned version for the given package name (canonical
// or not), and whether the package is present.
func (s *PackageSet) Version(name string) (*semver.Version, bool) {
	version, ok := s.versions[CanonicalName(name)]
	return version, ok
}

// Names returns the canonical package names in insertion order.
func (s *PackageSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of pinned packages.
func (s *PackageSet) Len() int {
	return len(s.names)
}
