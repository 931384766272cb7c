package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository is re-exported from gitforge. The locator fills one in for
// every dependency whose upstream hosting could be derived from its
// package name.
type Repository = gitforgeEntities.Repository
