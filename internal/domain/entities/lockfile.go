package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Format identifies a supported lock file format.
type Format int

const (
	// FormatPipfileLock is the JSON Pipfile.lock format whose top-level
	// "default" object maps package names to pinned versions.
	FormatPipfileLock Format = iota

	// FormatRequirements is the flat requirements format with one
	// "name==version" pin per line.
	FormatRequirements
)

// Well-known lock file names searched for when no path is given.
const (
	PipfileLockName  = "Pipfile.lock"
	RequirementsName = "requirements.txt"
)

// Lockfile is a dependency lock file located inside a project, classified by
// format so its content can be parsed into a PackageSet.
type Lockfile struct {
	Path   string
	Format Format
}

// DetectLockfile classifies the lock file at the given path by its base name.
// "Pipfile.lock" and anything matching "requirements*.txt" are supported.
func DetectLockfile(path string) (Lockfile, error) {
	base := filepath.Base(path)
	switch {
	case base == PipfileLockName:
		return Lockfile{Path: path, Format: FormatPipfileLock}, nil
	case matchesRequirements(base):
		return Lockfile{Path: path, Format: FormatRequirements}, nil
	default:
		return Lockfile{}, fmt.Errorf(
			"unsupported lock file %q (expected %s or requirements*.txt)", base, PipfileLockName)
	}
}

// FindLockfile searches dir for a supported lock file, preferring
// Pipfile.lock over requirements.txt when both exist.
func FindLockfile(dir string) (Lockfile, error) {
	for _, name := range []string{PipfileLockName, RequirementsName} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return DetectLockfile(path)
		}
	}
	return Lockfile{}, fmt.Errorf(
		"no lock file found in %q (%s or %s)", dir, PipfileLockName, RequirementsName)
}

func matchesRequirements(base string) bool {
	matched, _ := filepath.Match("requirements*.txt", base)
	return matched
}

// ParsePackages parses raw lock file content into an ordered package set.
// Both formats yield the same structure, so nothing downstream branches on
// the format again.
func (l Lockfile) ParsePackages(data string) (*PackageSet, error) {
	switch l.Format {
	case FormatPipfileLock:
		return parsePipfileLock(data)
	case FormatRequirements:
		return parseRequirements(data)
	default:
		return nil, fmt.Errorf("unknown lock file format %d", l.Format)
	}
}

// parsePipfileLock walks the JSON token stream instead of unmarshalling into
// a map, so packages keep the order they have in the file.
func parsePipfileLock(data string) (*PackageSet, error) {
	dec := json.NewDecoder(strings.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing Pipfile.lock: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("parsing Pipfile.lock: top-level value is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing Pipfile.lock: %w", err)
		}
		if key, _ := keyTok.(string); key == "default" {
			return parsePipfileDefault(dec)
		}

		var skipped json.RawMessage
		if err := dec.Decode(&skipped); err != nil {
			return nil, fmt.Errorf("parsing Pipfile.lock: %w", err)
		}
	}

	return nil, errors.New(`parsing Pipfile.lock: missing "default" section`)
}

func parsePipfileDefault(dec *json.Decoder) (*PackageSet, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing Pipfile.lock: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New(`parsing Pipfile.lock: "default" is not an object`)
	}

	set := NewPackageSet()
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing Pipfile.lock: %w", err)
		}
		name, _ := nameTok.(string)

		var entry struct {
			Version *string `json:"version"`
		}
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("parsing Pipfile.lock entry %q: %w", name, err)
		}
		if entry.Version == nil {
			// Unpinned entries (editable or VCS installs) carry no version.
			continue
		}

		version, err := semver.NewVersion(strings.TrimPrefix(*entry.Version, "=="))
		if err != nil {
			return nil, fmt.Errorf("invalid version %q for package %q: %w", *entry.Version, name, err)
		}
		set.Pin(name, version)
	}

	// Consuming the closing brace surfaces truncated input, which More
	// reports as plain end-of-object.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing Pipfile.lock: %w", err)
	}
	return set, nil
}

func parseRequirements(data string) (*PackageSet, error) {
	set := NewPackageSet()
	for _, line := range splitLines(data) {
		if strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "==")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed requirements line %q: want exactly one \"==\"", line)
		}

		name := strings.TrimSpace(parts[0])
		raw := strings.TrimSpace(parts[1])
		version, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q for package %q: %w", raw, name, err)
		}
		set.Pin(name, version)
	}
	return set, nil
}

// splitLines splits content into lines without producing a phantom empty
// line for the trailing newline.
func splitLines(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	lines := strings.Split(data, "\n")
	if last := len(lines) - 1; last >= 0 && lines[last] == "" {
		lines = lines[:last]
	}
	return lines
}
