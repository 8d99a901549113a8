package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Notwinner0/prbody/internal/body"
	"github.com/Notwinner0/prbody/internal/config"
)

// newDiskRepo creates a repository under a temp dir with one commit per message.
func newDiskRepo(t *testing.T, messages ...string) (string, []plumbing.Hash) {
	t.Helper()
	root := t.TempDir()
	r, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var hashes []plumbing.Hash
	for i, message := range messages {
		require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte(message), 0644))
		_, err := wt.Add("file.txt")
		require.NoError(t, err)
		sig := &object.Signature{Name: "Jane Doe", Email: "jane@example.com", When: when.Add(time.Duration(i) * time.Minute)}
		h, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
		hashes = append(hashes, h)
	}
	return root, hashes
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCmdCreate(t *testing.T) {
	root, hashes := newDiskRepo(t, "Initial commit", "Fix <crash>\n\nDetails in rdar://123 here.")
	textFile := writeFile(t, "text.md", "Fixes the crash.\n")
	short := hashes[1].String()[:12]

	t.Run("EscapedByDefault", func(t *testing.T) {
		var out bytes.Buffer
		err := CmdCreate(&out, CreateOptions{RepoPath: root, Base: hashes[0].String(), TextFile: textFile})
		require.NoError(t, err)

		want := "Fixes the crash.\n\n" + body.Divider + "\n#### " + short +
			"\n<pre>\nFix &lt;crash&gt;\n\nDetails in <a href=\"https://rdar.apple.com/123\">rdar://123</a> here.\n</pre>\n"
		assert.Equal(t, want, out.String())
	})

	t.Run("Verbatim", func(t *testing.T) {
		var out bytes.Buffer
		err := CmdCreate(&out, CreateOptions{RepoPath: root, Base: hashes[0].String(), Verbatim: true})
		require.NoError(t, err)

		assert.Equal(t, "#### "+short+"\n```\nFix <crash>\n\nDetails in rdar://123 here.\n```\n", out.String())
	})

	t.Run("ConfigFromFlag", func(t *testing.T) {
		cfgPath := writeFile(t, "prbody.ini", "[prbody]\nlinkify = false\nhash-length = 7\n")
		var out bytes.Buffer
		err := CmdCreate(&out, CreateOptions{RepoPath: root, Base: hashes[0].String(), ConfigPath: cfgPath})
		require.NoError(t, err)

		assert.Equal(t, "#### "+hashes[1].String()[:7]+"\n```\nFix <crash>\n\nDetails in rdar://123 here.\n```\n", out.String())
	})

	t.Run("NotARepository", func(t *testing.T) {
		var out bytes.Buffer
		err := CmdCreate(&out, CreateOptions{RepoPath: "/", Base: "HEAD"})
		assert.Error(t, err)
	})
}

func TestCmdCreateRepositoryConfig(t *testing.T) {
	root, hashes := newDiskRepo(t, "Initial commit", "Second")
	cfgPath := filepath.Join(root, ".git", "config")
	f, err := os.OpenFile(cfgPath, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("[prbody]\n\thash-length = 4\n\tlinkify = off\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var out bytes.Buffer
	require.NoError(t, CmdCreate(&out, CreateOptions{RepoPath: root, Base: hashes[0].String()}))

	assert.Equal(t, "#### "+hashes[1].String()[:4]+"\n```\nSecond\n```\n", out.String())
}

func TestCmdLog(t *testing.T) {
	root, hashes := newDiskRepo(t, "Initial commit", "Add parser\n\nWith a body", "Fix lexer")

	var out bytes.Buffer
	require.NoError(t, CmdLog(&out, root, hashes[0].String(), "", ""))

	want := hashes[2].String()[:12] + " Fix lexer\n" + hashes[1].String()[:12] + " Add parser\n"
	assert.Equal(t, want, out.String())
}

func TestCmdParse(t *testing.T) {
	input := writeFile(t, "body.md", "Fixes bug\n\n"+body.Divider+"\n#### abc123\n<pre>\nFix &lt;crash&gt;\n</pre>\n"+
		body.Divider+"\n#### def456\n```\n???\n```\n")

	var out bytes.Buffer
	require.NoError(t, CmdParse(&out, input, ""))

	var got body.Body
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, body.Body{
		Text:    "Fixes bug",
		Commits: []body.Commit{{Hash: "abc123", Message: "Fix <crash>"}, {Hash: "def456"}},
	}, got)
}

func TestCmdEscape(t *testing.T) {
	input := writeFile(t, "message.txt", "Fix <crash> in rdar://9 now")

	var escaped bytes.Buffer
	require.NoError(t, CmdEscape(&escaped, input, "", false))
	assert.Equal(t, `Fix &lt;crash&gt; in <a href="https://rdar.apple.com/9">rdar://9</a> now`, escaped.String())

	var unescaped bytes.Buffer
	require.NoError(t, CmdEscape(&unescaped, writeFile(t, "escaped.txt", escaped.String()), "", true))
	assert.Equal(t, "Fix <crash> in rdar://9 now", unescaped.String())
}

func TestCmdEscapeRadarURL(t *testing.T) {
	cfgPath := writeFile(t, "prbody.ini", "[prbody]\nradar-url = https://radar.example.com/\n")
	input := writeFile(t, "message.txt", "See rdar://9 now")

	var out bytes.Buffer
	require.NoError(t, CmdEscape(&out, input, cfgPath, false))

	assert.Equal(t, `See <a href="https://radar.example.com/9">rdar://9</a> now`, out.String())
}

func TestCmdDescribe(t *testing.T) {
	input := writeFile(t, "body.md", "Summary\n\n"+body.Divider+"\n#### abc123\n```\nFirst line\nSecond line\n```\n"+
		body.Divider+"\n#### def456\n```\n???\n```")

	var out bytes.Buffer
	require.NoError(t, CmdDescribe(&out, 12, "Fix crash", input))

	want := "PR 12 | Fix crash\nOpened: ?\n\nSummary\n\nCommits (2):\n  abc123 First line\n  def456 ???\n"
	assert.Equal(t, want, out.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCmdDescribeWriteError(t *testing.T) {
	input := writeFile(t, "body.md", "Summary")

	err := CmdDescribe(failingWriter{}, 1, "", input)

	assert.EqualError(t, err, "disk full")
}

func TestCmdInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prbody.ini")

	require.NoError(t, CmdInitConfig(path))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	assert.Error(t, CmdInitConfig(path))
}
