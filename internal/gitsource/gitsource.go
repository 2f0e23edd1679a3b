// Package gitsource keeps a local checkout of a git repository of card notes.
package gitsource

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Sync clones url into localPath when it does not exist yet, or pulls the
// latest changes into the existing checkout. Progress output goes to progress
// when non-nil.
func Sync(url, localPath string, progress io.Writer) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		slog.Info("Cloning card repository", "url", url, "path", localPath)
		_, err := git.PlainClone(localPath, false, &git.CloneOptions{
			URL:      url,
			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", url, err)
		}
	case err == nil:
		slog.Info("Pulling card repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		err = worktree.Pull(&git.PullOptions{
			RemoteName: "origin",
			Progress:   progress,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}
	return nil
}

// IsRemote reports whether source names a git repository rather than a
// local directory.
func IsRemote(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// LocalPath maps a repository URL to baseDir/<host>/<path>. Both URL and
// scp-like (git@host:owner/repo.git) forms are accepted. Paths that would
// resolve outside baseDir are rejected.
func LocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		return under(baseDir, repoURL, parsed.Host, strings.TrimSuffix(parsed.Path, ".git"))
	}

	if user, rest, ok := strings.Cut(repoURL, "@"); ok && user != "" {
		host, repoPath, ok := strings.Cut(rest, ":")
		if ok && host != "" && repoPath != "" {
			return under(baseDir, repoURL, host, strings.TrimSuffix(repoPath, ".git"))
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}

func under(baseDir, repoURL, host, repoPath string) (string, error) {
	p := filepath.Join(baseDir, host, repoPath)
	rel, err := filepath.Rel(baseDir, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("git URL %s escapes %s", repoURL, baseDir)
	}
	return p, nil
}
