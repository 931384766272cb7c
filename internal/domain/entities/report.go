package entities

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	messageIndent    = "    "
	coAuthoredMarker = "co-authored"
	absentVersion    = "none"
)

// issueRefPattern matches bare issue references such as "(#123" or " #123"
// that are ambiguous once commit messages from many repositories are mixed
// into one report.
var issueRefPattern = regexp.MustCompile(`(\(| )(#\d+)`)

// ReportEntry is one package section of a generated changelog: the version
// transition plus the commit messages explaining it, newest first.
type ReportEntry struct {
	Package  string
	Previous *semver.Version
	Current  *semver.Version
	Label    string
	Messages []string
}

// Header renders the section heading with the package name, the version
// transition and the bump severity icon.
func (e ReportEntry) Header() string {
	previous := absentVersion
	if e.Previous != nil {
		previous = e.Previous.String()
	}

	header := "📁 " + e.Package + " (" + previous + " -> " + e.Current.String()
	if icon := BumpFor(e.Previous, e.Current).Icon(); icon != "" {
		header += " " + icon
	}
	return header + ")"
}

// Body renders the commit messages as one indented block: issue references
// are qualified with the repository label, co-author trailers are dropped,
// and every non-blank line is indented.
func (e ReportEntry) Body() string {
	qualified := make([]string, 0, len(e.Messages))
	for _, message := range e.Messages {
		qualified = append(qualified, QualifyIssueRefs(message, e.Label))
	}
	return indentBlock(dropCoAuthoredLines(strings.Join(qualified, "\n")))
}

// QualifyIssueRefs rewrites bare issue references so they name the
// repository they belong to: " #123" becomes " owner/name#123".
func QualifyIssueRefs(message, label string) string {
	return issueRefPattern.ReplaceAllString(message, "${1}"+label+"${2}")
}

// RepoLabel derives the short "owner/name" label from a repository remote
// URL. URL forms ("https://host/owner/name.git") and SCP-like forms
// ("git@host:owner/name.git") are both supported.
func RepoLabel(remoteURL string) string {
	label := strings.TrimSuffix(remoteURL, ".git")

	if idx := strings.Index(label, "://"); idx >= 0 {
		label = label[idx+len("://"):]
		if slash := strings.Index(label, "/"); slash >= 0 {
			return label[slash+1:]
		}
		return ""
	}

	if at := strings.Index(label, "@"); at >= 0 {
		if colon := strings.Index(label[at:], ":"); colon >= 0 {
			return label[at+colon+1:]
		}
	}

	return strings.TrimPrefix(label, "/")
}

// dropCoAuthoredLines removes commit trailer lines crediting co-authors.
func dropCoAuthoredLines(block string) string {
	var kept []string
	for _, line := range strings.Split(block, "\n") {
		if strings.Contains(strings.ToLower(line), coAuthoredMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// indentBlock indents every non-blank line by four spaces.
func indentBlock(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = messageIndent + line
		}
	}
	return strings.Join(lines, "\n")
}
