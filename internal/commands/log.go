package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/Notwinner0/prbody/internal/repo"
)

// CmdLog is the handler for the log command: one line per commit that create would render.
func CmdLog(w io.Writer, repoPath, base, head, configPath string) error {
	gitRepo, err := repo.Open(repoPath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath, gitRepo)
	if err != nil {
		return err
	}

	commits, err := gitRepo.Commits(base, head, repo.CommitOptions{
		HashLength: cfg.HashLength,
		Limit:      cfg.MaxCommits,
	})
	if err != nil {
		return err
	}

	for _, c := range commits {
		message := c.Message
		if idx := strings.Index(message, "\n"); idx != -1 {
			message = message[:idx] // Keep only the first line
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", c.Hash, message); err != nil {
			return err
		}
	}
	return nil
}
