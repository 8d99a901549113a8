// Package body renders and parses pull request bodies: free text followed by one
// block per commit, separated by dash dividers.
package body

import (
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

const (
	// DividerLen is the number of dashes in a divider line.
	DividerLen = 70
	// MissingMessage stands in for a commit without a message.
	MissingMessage = "???"

	fence = "```"
)

// Divider separates free text from commit blocks and commit blocks from each other.
var Divider = strings.Repeat("-", DividerLen)

// Commit is a single commit as it appears in a pull request body. An empty
// Message means the commit has no message.
type Commit struct {
	Hash    string `yaml:"hash" json:"hash"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Body is the parsed form of a pull request body.
type Body struct {
	Text    string   `yaml:"text,omitempty" json:"text,omitempty"`
	Commits []Commit `yaml:"commits" json:"commits"`
}

// Codec renders and parses bodies. The zero value links rdar:// tokens to DefaultRadarURL.
type Codec struct {
	RadarURL string
}

// Default is the codec used by the package-level functions.
var Default = &Codec{RadarURL: DefaultRadarURL}

// blockFormat is one recognized commit block layout.
type blockFormat struct {
	name    string
	pattern *regexp2.Regexp
	escaped bool
}

// hiddenSpan is an opaque trailer some tools append after a block; it is matched and dropped.
const hiddenSpan = `(?:<!--.+Start-->.+<!--.+End-->)?`

func blockPattern(open, close string) *regexp2.Regexp {
	return regexp2.MustCompile(
		`\A#### (?<hash>[0-9a-f]+)\n`+open+`\n(?<message>.+)\n`+close+`\n?`+hiddenSpan+`\z`,
		regexp2.Singleline,
	)
}

// blockFormats are tried in order; a part matching none of them is free text.
var blockFormats = []blockFormat{
	{name: "fenced", pattern: blockPattern(fence, fence), escaped: false},
	{name: "pre", pattern: blockPattern("<pre>", "</pre>"), escaped: true},
}

// Create renders text and commits with the default codec.
func Create(text string, commits []Commit, linkify bool) string {
	return Default.Create(text, commits, linkify)
}

// Parse splits a rendered body with the default codec.
func Parse(text string) (string, []Commit) {
	return Default.Parse(text)
}

// Create renders text followed by one block per commit. With linkify set,
// messages are HTML escaped inside <pre> blocks; otherwise they are fenced verbatim.
func (c *Codec) Create(text string, commits []Commit, linkify bool) string {
	if len(commits) == 0 {
		return text
	}

	var b strings.Builder
	if text != "" {
		b.WriteString(strings.TrimRightFunc(text, unicode.IsSpace))
		b.WriteString("\n\n")
		b.WriteString(Divider)
		b.WriteString("\n")
	}

	for i, commit := range commits {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(Divider)
			b.WriteString("\n")
		}
		message := strings.TrimRightFunc(commit.Message, unicode.IsSpace)
		if message == "" {
			message = MissingMessage
		}

		b.WriteString("#### ")
		b.WriteString(commit.Hash)
		b.WriteString("\n")
		if linkify {
			b.WriteString("<pre>\n")
			b.WriteString(c.EscapeHTML(message))
			b.WriteString("\n</pre>")
		} else {
			b.WriteString(fence + "\n")
			b.WriteString(message)
			b.WriteString("\n" + fence)
		}
	}
	return b.String()
}

// Parse splits a rendered body back into its free text and commits. Parts that
// are not commit blocks are folded into the free text, wherever they appear.
func (c *Codec) Parse(text string) (string, []Commit) {
	if text == "" {
		return "", nil
	}

	var free []string
	var commits []Commit
	for _, part := range strings.Split(text, Divider) {
		part = strings.TrimSpace(part)
		if commit, ok := c.parseBlock(part); ok {
			commits = append(commits, commit)
			continue
		}
		if part != "" {
			free = append(free, part)
		}
	}
	return strings.Join(free, "\n"+Divider+"\n"), commits
}

// ParseBody is Parse returning a Body.
func (c *Codec) ParseBody(text string) Body {
	t, commits := c.Parse(text)
	return Body{Text: t, Commits: commits}
}

func (c *Codec) parseBlock(part string) (Commit, bool) {
	for _, format := range blockFormats {
		m, err := format.pattern.FindStringMatch(part)
		if err != nil || m == nil {
			continue
		}
		message := m.GroupByName("message").String()
		if format.escaped {
			message = c.UnescapeHTML(message)
		}
		if message == MissingMessage {
			message = ""
		}
		return Commit{Hash: m.GroupByName("hash").String(), Message: message}, true
	}
	return Commit{}, false
}
