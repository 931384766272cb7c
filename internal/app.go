package internal

import (
	"github.com/slint/depchangelog/internal/domain/entities"
)

// AppContext aggregates everything the CLI layer needs out of the container.
type AppContext struct {
	controllers *[]entities.Controller
}

// NewAppContext creates a new AppContext.
func NewAppContext(controllers *[]entities.Controller) *AppContext {
	return &AppContext{controllers: controllers}
}

// GetControllers returns all registered controllers.
func (it *AppContext) GetControllers() []entities.Controller {
	return *it.controllers
}
