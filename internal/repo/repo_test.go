package repo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notwinner0/prbody/internal/body"
)

// newTestRepo creates an in-memory repository with one commit per message,
// returning the commit hashes oldest first.
func newTestRepo(t *testing.T, messages ...string) (*git.Repository, []plumbing.Hash) {
	t.Helper()
	fs := memfs.New()
	r, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var hashes []plumbing.Hash
	for i, message := range messages {
		require.NoError(t, util.WriteFile(fs, "file.txt", []byte(message), 0644))
		_, err := wt.Add("file.txt")
		require.NoError(t, err)

		sig := &object.Signature{Name: "Jane Doe", Email: "jane@example.com", When: when.Add(time.Duration(i) * time.Hour)}
		h, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
		hashes = append(hashes, h)
	}
	return r, hashes
}

func TestCommits(t *testing.T) {
	r, hashes := newTestRepo(t, "Initial commit", "Add parser\n\nWith a body.\n", "Fix <crash>\n")
	repository := FromGit(r)

	tests := []struct {
		name string
		base string
		head string
		opts CommitOptions
		want []body.Commit
	}{
		{
			name: "range from base",
			base: hashes[0].String(),
			opts: CommitOptions{HashLength: 12},
			want: []body.Commit{
				{Hash: hashes[2].String()[:12], Message: "Fix <crash>"},
				{Hash: hashes[1].String()[:12], Message: "Add parser\n\nWith a body."},
			},
		},
		{
			name: "full history with limit",
			head: "HEAD",
			opts: CommitOptions{Limit: 1},
			want: []body.Commit{
				{Hash: hashes[2].String(), Message: "Fix <crash>"},
			},
		},
		{
			name: "head equals base",
			base: "HEAD",
			head: hashes[2].String(),
			want: nil,
		},
		{
			name: "older head",
			head: hashes[1].String(),
			opts: CommitOptions{HashLength: 7},
			want: []body.Commit{
				{Hash: hashes[1].String()[:7], Message: "Add parser\n\nWith a body."},
				{Hash: hashes[0].String()[:7], Message: "Initial commit"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.Commits(tt.base, tt.head, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommitsUnknownRevision(t *testing.T) {
	r, _ := newTestRepo(t, "Initial commit")

	_, err := FromGit(r).Commits("does-not-exist", "", CommitOptions{})

	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindGitdirFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: ../.git/modules/sub\n"), 0644))

	found, err := Find(root)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestOpen(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)

	repository, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".git", "config"), repository.ConfigPath())
}

func TestConfigPathInMemory(t *testing.T) {
	r, _ := newTestRepo(t, "Initial commit")

	assert.Equal(t, "", FromGit(r).ConfigPath())
}

func TestCommitsInvalidUTF8(t *testing.T) {
	r, hashes := newTestRepo(t, "caf\xe9 fix\n")

	got, err := FromGit(r).Commits("", "", CommitOptions{})
	require.NoError(t, err)

	want := []body.Commit{{Hash: hashes[0].String(), Message: "caf\uFFFD fix"}}
	assert.Equal(t, want, got)

	// the normalized message survives a render and parse in both modes
	for _, linkify := range []bool{true, false} {
		_, parsed := body.Parse(body.Create("", got, linkify))
		assert.Equal(t, want, parsed, "linkify=%v", linkify)
	}
}
