package utils

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitOperations handles git-related lookups for the repository being exported
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// GetRepoRoot returns the top-level directory of the enclosing git repository
func (g *GitOperations) GetRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository root from %s: %w", g.workingDir, err)
	}
	return filepath.Clean(strings.TrimSpace(string(output))), nil
}

// ResolveRoot picks the repository root: an explicit path wins, then the git
// top-level directory, then the working directory itself.
func ResolveRoot(explicit string, workingDir string) (string, error) {
	root := explicit
	if root == "" {
		if top, err := NewGitOperations(workingDir).GetRepoRoot(); err == nil {
			root = top
		} else {
			root = workingDir
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	return abs, nil
}
