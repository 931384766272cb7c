package controllers

import (
	logger "github.com/sirupsen/logrus"

	"github.com/slint/depchangelog/internal/domain/entities"
)

// loadSettings resolves the configuration for a run: an explicit --config
// path, a config file found in the standard locations, or the built-in
// defaults when no file exists.
func loadSettings(configPath string) (*entities.Settings, error) {
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debug("No config file found, using defaults")
			return entities.DefaultSettings(), nil
		}
		configPath = found
	}

	logger.Debugf("Using config file: %s", configPath)
	return entities.NewSettings(configPath)
}
