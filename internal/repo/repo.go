package repo

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Notwinner0/prbody/internal/body"
)

// ErrNotARepository is returned when no enclosing git repository exists.
var ErrNotARepository = errors.New("not a git repository")

// Repository is a git repository commits are collected from.
type Repository struct {
	Worktree string
	Gitdir   string
	repo     *git.Repository
}

// CommitOptions bounds the commits returned by Commits.
type CommitOptions struct {
	// HashLength abbreviates hashes; 0 keeps the full hash.
	HashLength int
	// Limit caps the number of commits; 0 means no limit.
	Limit int
}

// Find returns the root of the repository enclosing path.
func Find(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	gitPath := filepath.Join(absPath, ".git")
	if fi, err := os.Stat(gitPath); err == nil {
		if fi.IsDir() {
			return absPath, nil
		}
		// Submodules and worktrees use a file pointing at the real gitdir
		if content, err := os.ReadFile(gitPath); err == nil && strings.HasPrefix(string(content), "gitdir: ") {
			return absPath, nil
		}
	}

	parent := filepath.Dir(absPath)
	if parent == absPath {
		return "", ErrNotARepository
	}
	return Find(parent)
}

// Open opens the repository enclosing path.
func Open(path string) (*Repository, error) {
	root, err := Find(path)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", root).Msg("Opening git repository")

	r, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotARepository
		}
		return nil, errors.Wrapf(err, "opening %s", root)
	}

	return &Repository{
		Worktree: root,
		Gitdir:   filepath.Join(root, ".git"),
		repo:     r,
	}, nil
}

// FromGit wraps an already opened repository, such as an in-memory one.
func FromGit(r *git.Repository) *Repository {
	return &Repository{repo: r}
}

// ConfigPath is the path of the repository's config file, or "" when the
// repository has no on-disk gitdir directory.
func (r *Repository) ConfigPath() string {
	if r.Gitdir == "" {
		return ""
	}
	if fi, err := os.Stat(r.Gitdir); err != nil || !fi.IsDir() {
		return ""
	}
	return filepath.Join(r.Gitdir, "config")
}

// Commits returns the commits reachable from head but not from base, newest first.
// An empty base returns everything reachable from head; an empty head means HEAD.
func (r *Repository) Commits(base, head string, opts CommitOptions) ([]body.Commit, error) {
	if head == "" {
		head = "HEAD"
	}
	headHash, err := r.resolve(head)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	if base != "" {
		baseHash, err := r.resolve(base)
		if err != nil {
			return nil, err
		}
		err = r.walk(baseHash, func(c *object.Commit) error {
			excluded[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", base)
		}
		log.Debug().Str("base", base).Int("excluded", len(excluded)).Msg("Collected base history")
	}

	var commits []body.Commit
	err = r.walk(headHash, func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}
		if opts.Limit > 0 && len(commits) >= opts.Limit {
			return storer.ErrStop
		}
		commits = append(commits, body.Commit{
			Hash:    abbreviate(c.Hash.String(), opts.HashLength),
			Message: validMessage(c),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", head)
	}

	log.Debug().Str("head", head).Int("commits", len(commits)).Msg("Collected commits")
	return commits, nil
}

func (r *Repository) resolve(rev string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, errors.Wrapf(err, "resolving %s", rev)
	}
	return *h, nil
}

func (r *Repository) walk(from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return err
	}
	defer iter.Close()

	err = iter.ForEach(fn)
	if err == storer.ErrStop {
		return nil
	}
	return err
}

// validMessage returns the trimmed message of c. Bodies are UTF-8 text; invalid
// bytes (e.g. from a latin-1 i18n.commitEncoding) become U+FFFD.
func validMessage(c *object.Commit) string {
	message := strings.TrimSpace(c.Message)
	if utf8.ValidString(message) {
		return message
	}
	log.Debug().Str("commit", c.Hash.String()).Msg("Replacing invalid UTF-8 in commit message")
	return strings.ToValidUTF8(message, "\uFFFD")
}

func abbreviate(hash string, n int) string {
	if n <= 0 || n >= len(hash) {
		return hash
	}
	return hash[:n]
}
