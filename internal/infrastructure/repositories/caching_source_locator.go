package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/slint/depchangelog/internal/domain/entities"
	domainRepos "github.com/slint/depchangelog/internal/domain/repositories"
	"github.com/slint/depchangelog/internal/infrastructure/repositories/gogit"
)

const (
	gitReposDirName = "git_repos"
	cloneSuffix     = ".git"
)

// CachingSourceLocator maps package names to upstream repositories via the
// configured naming rules and keeps one bare clone per package under the
// cache root, cloning on first use and reopening thereafter.
type CachingSourceLocator struct {
	cacheRoot string
	rules     []entities.OrganizationRule
	token     string
}

// NewCachingSourceLocator creates a locator storing clones under cacheRoot,
// resolving URLs with the organization rules from settings.
func NewCachingSourceLocator(cacheRoot string, settings *entities.Settings) *CachingSourceLocator {
	return &CachingSourceLocator{
		cacheRoot: cacheRoot,
		rules:     settings.Organizations,
		token:     settings.Auth.Token,
	}
}

// Locate derives the repository URL for a package name, clones it into the
// cache on first use, and returns the repository identity along with an
// open handle to the clone.
func (l *CachingSourceLocator) Locate(
	ctx context.Context,
	name string,
) (entities.Repository, domainRepos.SourceRepository, error) {
	// Some packages are published with underscores while their repository
	// uses the hyphenated spelling.
	normalized := strings.ReplaceAll(name, "_", "-")

	url, err := l.deriveURL(normalized)
	if err != nil {
		return entities.Repository{}, nil, err
	}

	repo := describeRepository(normalized, url)
	auth := gogit.AuthFor(url, l.token)
	clonePath := filepath.Join(l.cacheRoot, gitReposDirName, normalized+cloneSuffix)

	if _, statErr := os.Stat(clonePath); statErr != nil {
		if !os.IsNotExist(statErr) {
			return entities.Repository{}, nil, fmt.Errorf("failed to inspect cache at %q: %w", clonePath, statErr)
		}

		if mkdirErr := os.MkdirAll(filepath.Dir(clonePath), 0o755); mkdirErr != nil {
			return entities.Repository{}, nil, fmt.Errorf("failed to create cache directory: %w", mkdirErr)
		}

		logger.Infof("[cache] Cloning %s...", url)
		source, cloneErr := gogit.CloneSource(ctx, url, clonePath, auth)
		if cloneErr != nil {
			return entities.Repository{}, nil, cloneErr
		}
		return repo, source, nil
	}

	logger.Debugf("[cache] Reusing cached clone for %s", normalized)
	source, openErr := gogit.OpenSource(clonePath, auth)
	if openErr != nil {
		return entities.Repository{}, nil, openErr
	}
	return repo, source, nil
}

// CacheDir returns the root directory of the clone cache.
func (l *CachingSourceLocator) CacheDir() string {
	return l.cacheRoot
}

// CachedClones lists the normalized package names with a clone in the
// cache, sorted alphabetically.
func (l *CachingSourceLocator) CachedClones() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.cacheRoot, gitReposDirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read the clone cache: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), cloneSuffix) {
			names = append(names, strings.TrimSuffix(entry.Name(), cloneSuffix))
		}
	}
	return names, nil
}

// Clean removes every cached clone.
func (l *CachingSourceLocator) Clean() error {
	dir := filepath.Join(l.cacheRoot, gitReposDirName)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove the clone cache %q: %w", dir, err)
	}
	return nil
}

// deriveURL resolves the upstream URL for a normalized package name:
// explicit "git+" specs and full "https://" URLs pass through, then the
// organization rules decide, first match wins.
func (l *CachingSourceLocator) deriveURL(name string) (string, error) {
	switch {
	case strings.HasPrefix(name, "git+"):
		return strings.TrimPrefix(name, "git+"), nil
	case strings.HasPrefix(name, "https://"):
		return name, nil
	}

	for _, rule := range l.rules {
		if strings.HasPrefix(name, rule.Prefix) {
			return strings.TrimSuffix(rule.URL, "/") + "/" + name, nil
		}
	}

	return "", fmt.Errorf("no source rule matches package %q", name)
}

// describeRepository derives the hosting identity recorded in logs from the
// resolved URL.
func describeRepository(name, url string) entities.Repository {
	organization := ""
	repoName := name
	if label := entities.RepoLabel(url); label != "" {
		if idx := strings.LastIndex(label, "/"); idx >= 0 {
			organization = label[:idx]
			repoName = label[idx+1:]
		} else {
			repoName = label
		}
	}

	providerName := ""
	switch {
	case strings.Contains(url, "github.com"):
		providerName = "github"
	case strings.Contains(url, "gitlab.com"):
		providerName = "gitlab"
	}

	return entities.Repository{
		Name:         repoName,
		Organization: organization,
		RemoteURL:    url,
		ProviderName: providerName,
	}
}
