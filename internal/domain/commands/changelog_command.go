package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/slint/depchangelog/internal/domain/entities"
	domainRepos "github.com/slint/depchangelog/internal/domain/repositories"
	"github.com/slint/depchangelog/internal/infrastructure/presenters"
	infraRepos "github.com/slint/depchangelog/internal/infrastructure/repositories"
)

// Changelog is the interface for the changelog generation command.
type Changelog interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ChangelogOptions) error
}

// ChangelogOptions holds runtime options for a single generation run.
type ChangelogOptions struct {
	LockfilePath  string    // If empty, the current directory is searched
	Since         string    // Commit-ish the diff starts from (default: HEAD)
	Until         string    // Commit-ish the diff ends at (default: working copy)
	PackageFilter string    // Keeps only packages matching this pattern
	MessageFilter string    // Drops commit messages matching this pattern
	Output        io.Writer // Destination for the formatted changelog
	Verbose       bool
}

// ChangelogCommand drives the full pipeline: diff the lock file between two
// revisions, then for every changed package resolve its upstream clone and
// write the commit messages between the two version tags.
type ChangelogCommand struct {
	projectFactory infraRepos.ProjectFactory
	locatorFactory infraRepos.LocatorFactory
}

// NewChangelogCommand creates a new ChangelogCommand with the given factories.
func NewChangelogCommand(
	projectFactory infraRepos.ProjectFactory,
	locatorFactory infraRepos.LocatorFactory,
) *ChangelogCommand {
	return &ChangelogCommand{
		projectFactory: projectFactory,
		locatorFactory: locatorFactory,
	}
}

// Execute generates the changelog for every changed dependency. Failures on
// a single package are reported and the run continues with the next one.
func (it *ChangelogCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ChangelogOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	lockfile, err := resolveLockfile(opts.LockfilePath)
	if err != nil {
		return err
	}
	logger.Debugf("Using lock file: %s", lockfile.Path)

	project, err := it.projectFactory(filepath.Dir(lockfile.Path))
	if err != nil {
		return fmt.Errorf("could not find the git repository of %q: %w", lockfile.Path, err)
	}

	changes, err := diffLockfile(project, lockfile, opts.Since, opts.Until)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		logger.Info("No dependency changes detected")
		return nil
	}

	packageFilter, err := compileFilter(opts.PackageFilter, "package filter")
	if err != nil {
		return err
	}
	messageFilter, err := compileFilter(opts.MessageFilter, "message filter")
	if err != nil {
		return err
	}

	cacheRoot, err := settings.ResolvedCacheDir()
	if err != nil {
		return err
	}

	locator := it.locatorFactory(cacheRoot, settings)
	presenter := presenters.NewReportPresenter(opts.Output)

	written := 0
	failed := 0
	for _, change := range changes {
		if packageFilter != nil && !packageFilter.MatchString(change.Name) {
			continue
		}

		if entryErr := writePackageChangelog(
			ctx, locator, presenter, messageFilter, change,
		); entryErr != nil {
			logger.Errorf("Error generating changelog for %s: %v", change.Name, entryErr)
			failed++
			continue
		}
		written++
	}

	logger.Debugf("Run complete: %d entries written, %d failures", written, failed)
	return nil
}

// resolveLockfile locates the lock file to diff: an explicit path is
// classified by name, otherwise the current directory is searched.
func resolveLockfile(path string) (entities.Lockfile, error) {
	if path == "" {
		return entities.FindLockfile(".")
	}

	if _, err := os.Stat(path); err != nil {
		return entities.Lockfile{}, fmt.Errorf("lock file %q is not readable: %w", path, err)
	}
	return entities.DetectLockfile(path)
}

// diffLockfile reads the lock file at the two revisions and returns the
// packages whose pinned version changed. An empty until reads the current
// content from the working copy, uncommitted changes included.
func diffLockfile(
	project domainRepos.ProjectRepository,
	lockfile entities.Lockfile,
	since, until string,
) ([]entities.PackageChange, error) {
	treePath, err := project.RelativePath(lockfile.Path)
	if err != nil {
		return nil, err
	}

	if since == "" {
		since = "HEAD"
	}
	previousData, err := project.FileAtRevision(since, treePath)
	if err != nil {
		return nil, err
	}
	previous, err := lockfile.ParsePackages(previousData)
	if err != nil {
		return nil, fmt.Errorf("at revision %q: %w", since, err)
	}

	var currentData string
	if until != "" {
		currentData, err = project.FileAtRevision(until, treePath)
		if err != nil {
			return nil, err
		}
	} else {
		raw, readErr := os.ReadFile(lockfile.Path)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %q: %w", lockfile.Path, readErr)
		}
		currentData = string(raw)
	}
	current, err := lockfile.ParsePackages(currentData)
	if err != nil {
		if until != "" {
			return nil, fmt.Errorf("at revision %q: %w", until, err)
		}
		return nil, fmt.Errorf("in working copy: %w", err)
	}

	return entities.DiffPackages(previous, current), nil
}

// writePackageChangelog generates and writes the report section for one
// changed package.
func writePackageChangelog(
	ctx context.Context,
	locator domainRepos.SourceLocator,
	presenter *presenters.ReportPresenter,
	messageFilter *regexp.Regexp,
	change entities.PackageChange,
) error {
	repo, source, err := locator.Locate(ctx, change.Name)
	if err != nil {
		return err
	}
	logger.Debugf("[%s] Using %s", change.Name, repo.RemoteURL)

	originURL, err := source.OriginURL()
	if err != nil {
		return err
	}

	var fromTag *entities.Tag
	if change.Previous != nil {
		fromTag, err = resolveTag(ctx, source, change.Previous, originURL)
		if err != nil {
			return err
		}
	}
	toTag, err := resolveTag(ctx, source, change.Current, originURL)
	if err != nil {
		return err
	}

	messages, err := source.CommitMessages(ctx, fromTag, toTag)
	if err != nil {
		return err
	}
	if messageFilter != nil {
		messages = dropMatching(messages, messageFilter)
	}

	return presenter.WriteEntry(entities.ReportEntry{
		Package:  change.Name,
		Previous: change.Previous,
		Current:  change.Current,
		Label:    entities.RepoLabel(originURL),
		Messages: messages,
	})
}

// resolveTag wraps tag resolution failures with the version and repository
// URL so per-package error lines name the culprit.
func resolveTag(
	ctx context.Context,
	source domainRepos.SourceRepository,
	version *semver.Version,
	originURL string,
) (*entities.Tag, error) {
	tag, err := source.ResolveVersionTag(ctx, version)
	if err != nil {
		if errors.Is(err, domainRepos.ErrTagNotFound) {
			return nil, fmt.Errorf("tag for version %s not found in %s", version.Original(), originURL)
		}
		return nil, fmt.Errorf("failed to resolve version %s in %s: %w", version.Original(), originURL, err)
	}
	return tag, nil
}

// dropMatching removes the messages matching the given pattern.
func dropMatching(messages []string, pattern *regexp.Regexp) []string {
	kept := make([]string, 0, len(messages))
	for _, message := range messages {
		if pattern.MatchString(message) {
			continue
		}
		kept = append(kept, message)
	}
	return kept
}

// compileFilter compiles an optional pattern, an empty pattern disabling
// the filter entirely.
func compileFilter(pattern, kind string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", kind, pattern, err)
	}
	return compiled, nil
}
