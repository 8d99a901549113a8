package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/Notwinner0/prbody/internal/repo"
)

// CreateOptions selects the commits and free text of a new body.
type CreateOptions struct {
	RepoPath   string
	Base       string
	Head       string
	TextFile   string
	Verbatim   bool
	ConfigPath string
}

// CmdCreate is the handler for the create command.
func CmdCreate(w io.Writer, opts CreateOptions) error {
	gitRepo, err := repo.Open(opts.RepoPath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.ConfigPath, gitRepo)
	if err != nil {
		return err
	}

	commits, err := gitRepo.Commits(opts.Base, opts.Head, repo.CommitOptions{
		HashLength: cfg.HashLength,
		Limit:      cfg.MaxCommits,
	})
	if err != nil {
		return err
	}

	var text string
	if opts.TextFile != "" {
		if text, err = readInput(opts.TextFile); err != nil {
			return err
		}
	}

	linkify := cfg.Linkify && !opts.Verbatim
	log.Debug().Int("commits", len(commits)).Bool("linkify", linkify).Msg("Rendering body")

	_, err = fmt.Fprintln(w, cfg.Codec().Create(text, commits, linkify))
	return err
}
