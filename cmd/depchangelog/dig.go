package main

import (
	"go.uber.org/dig"

	"github.com/slint/depchangelog/internal"
	"github.com/slint/depchangelog/internal/infrastructure/controllers"
)

func injectAppContext() *internal.AppContext {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppContext
	var appContext *internal.AppContext
	if err := container.Invoke(func(ac *internal.AppContext) {
		appContext = ac
	}); err != nil {
		panic(err)
	}

	return appContext
}

func injectChangelogController() *controllers.ChangelogController {
	container := dig.New()

	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var changelogController *controllers.ChangelogController
	if err := container.Invoke(func(cc *controllers.ChangelogController) {
		changelogController = cc
	}); err != nil {
		panic(err)
	}

	return changelogController
}
