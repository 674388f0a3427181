package git

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Default identity used when the environment does not provide one, so that
// commits work on machines without a configured git user.
const (
	DefaultAuthorName  = "cellar"
	DefaultAuthorEmail = "cellar@localhost"
)

// Client wraps git command execution inside a working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir: workDir,
		Logger:  logger,
	}
}

// IsInstalled checks if git is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run executes a raw git command in the working directory.
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir
	cmd.Env = withIdentity(os.Environ())

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether WorkDir is the top level of a git repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Init initializes a new git repository. Re-running it is safe.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	_, err := c.Run(args...)
	return err
}

// Rm removes files from the working tree and from the index.
func (c *Client) Rm(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"rm", "-f", "--quiet", "--"}, files...)
	_, err := c.Run(args...)
	return err
}

// IsTracked reports whether file is known to the git index.
func (c *Client) IsTracked(file string) bool {
	_, err := c.Run("ls-files", "--error-unmatch", "--", file)
	return err == nil
}

// HasChanges reports whether file differs from HEAD (staged or not).
func (c *Client) HasChanges(file string) (bool, error) {
	out, err := c.Run("status", "--porcelain", "--", file)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit records changes to the repository.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("commit", "-m", msg)
	return err
}

// Log returns the one-line history of the repository, newest first.
func (c *Client) Log() ([]string, error) {
	out, err := c.Run("log", "--format=%s")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func withIdentity(env []string) []string {
	defaults := map[string]string{
		"GIT_AUTHOR_NAME":     DefaultAuthorName,
		"GIT_AUTHOR_EMAIL":    DefaultAuthorEmail,
		"GIT_COMMITTER_NAME":  DefaultAuthorName,
		"GIT_COMMITTER_EMAIL": DefaultAuthorEmail,
	}
	for _, kv := range env {
		if k, _, ok := strings.Cut(kv, "="); ok {
			delete(defaults, k)
		}
	}
	for k, v := range defaults {
		env = append(env, k+"="+v)
	}
	return env
}
