package gogit

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	logger "github.com/sirupsen/logrus"
)

// AuthFor returns the authentication method for a remote URL: SSH agent
// auth for SSH remotes, HTTP basic auth with the configured token for
// HTTPS remotes, nil for anonymous access.
func AuthFor(url, token string) transport.AuthMethod {
	if isSSHURL(url) {
		agentAuth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logger.Debugf("[source] SSH agent unavailable: %v", err)
			return nil
		}
		return agentAuth
	}

	if token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "git", // Token carriers need any non-empty username
		Password: token,
	}
}

// isSSHURL detects git@ (SCP-style), ssh://, and git+ssh:// remotes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}
