package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultMessageFilter drops commit messages tagged as test-only or
// chore-only from generated changelogs.
const DefaultMessageFilter = `(tests?|chore):`

// cacheDirName is the subdirectory created under the OS user cache
// directory when no explicit cache_dir is configured.
const cacheDirName = "depchangelog"

// Settings is the top-level configuration for depchangelog.
type Settings struct {
	CacheDir      string             `yaml:"cache_dir"`
	MessageFilter string             `yaml:"message_filter"`
	Auth          AuthSettings       `yaml:"auth"`
	Organizations []OrganizationRule `yaml:"organizations"`
}

// AuthSettings holds credentials used when cloning or fetching dependency
// repositories over HTTPS.
type AuthSettings struct {
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// OrganizationRule maps a package-name prefix to the base URL of the
// hosting organization that owns those packages. A package "invenio-app"
// under the rule {prefix: "invenio-", url: "https://github.com/inveniosoftware"}
// resolves to "https://github.com/inveniosoftware/invenio-app".
type OrganizationRule struct {
	Prefix string `yaml:"prefix"`
	URL    string `yaml:"url"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the built-in configuration used when no config
// file exists: the default message filter and the Invenio organization rule.
func DefaultSettings() *Settings {
	return &Settings{
		MessageFilter: DefaultMessageFilter,
		Organizations: []OrganizationRule{
			{Prefix: "invenio-", URL: "https://github.com/inveniosoftware"},
		},
	}
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths. Values absent from the file keep
// their defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Auth.Token = resolveToken(settings.Auth.Token)

	if validateErr := validate(settings); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".depchangelog.yaml",
		".depchangelog.yml",
		"depchangelog.yaml",
		"depchangelog.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolvedCacheDir returns the configured cache directory, falling back to
// the OS user cache directory convention.
func (s *Settings) ResolvedCacheDir() (string, error) {
	if s.CacheDir != "" {
		return s.CacheDir, nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache directory: %w", err)
	}
	return filepath.Join(base, cacheDirName), nil
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if _, err := regexp.Compile(settings.MessageFilter); err != nil {
		return fmt.Errorf("message_filter is not a valid regular expression: %w", err)
	}

	for i, rule := range settings.Organizations {
		if rule.Prefix == "" {
			return fmt.Errorf("organizations[%d].prefix is required", i)
		}
		if rule.URL == "" {
			return fmt.Errorf("organizations[%d].url is required", i)
		}
	}

	return nil
}
