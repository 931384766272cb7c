package entities

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Tag is a release tag in a dependency repository, peeled to the commit it
// ultimately points at (annotated tags reference a tag object, not a
// commit, so callers never see the intermediate object).
type Tag struct {
	Name string
	Hash plumbing.Hash
}
