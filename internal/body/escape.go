package body

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// DefaultRadarURL is where rdar:// tokens point when no other base is configured.
const DefaultRadarURL = "https://rdar.apple.com/"

// escapeTable is applied in order on unescape; &amp; must stay last.
var escapeTable = []struct {
	char    string
	escaped string
}{
	{`"`, "&quot;"},
	{"'", "&apos;"},
	{">", "&gt;"},
	{"<", "&lt;"},
	{"&", "&amp;"},
}

var (
	urlPattern    = regexp2.MustCompile(`(https?://[^\s<>,:;]+?)(?=[\s<>,:;]|(&gt))`, regexp2.None)
	radarPattern  = regexp2.MustCompile(`rdar://([^\s<>,:;]+?)(?=[\s<>,:;().]|(&gt))`, regexp2.None)
	anchorPattern = regexp2.MustCompile(`<a href="https?://[^"\n]+?">([^\s<>,:;/]+://[^\s<>,:;]+)</a>`, regexp2.None)

	escaper = newEscaper()
)

func newEscaper() *strings.Replacer {
	pairs := make([]string, 0, 2*len(escapeTable))
	for _, e := range escapeTable {
		pairs = append(pairs, e.char, e.escaped)
	}
	return strings.NewReplacer(pairs...)
}

// EscapeHTML escapes message and links bare URLs and rdar:// tokens, using the default radar base.
func EscapeHTML(message string) string {
	return Default.EscapeHTML(message)
}

// UnescapeHTML reverses EscapeHTML.
func UnescapeHTML(message string) string {
	return Default.UnescapeHTML(message)
}

// EscapeHTML escapes message and links bare URLs and rdar:// tokens.
func (c *Codec) EscapeHTML(message string) string {
	escaped := replace(urlPattern, escaper.Replace(message), `<a href="$1">$1</a>`)
	base := strings.ReplaceAll(c.radarURL(), "$", "$$")
	return replace(radarPattern, escaped, `<a href="`+base+`$1">rdar://$1</a>`)
}

// UnescapeHTML strips the links EscapeHTML added and restores escaped characters.
func (c *Codec) UnescapeHTML(message string) string {
	message = replace(anchorPattern, message, "$1")
	for _, e := range escapeTable {
		message = strings.ReplaceAll(message, e.escaped, e.char)
	}
	return message
}

func (c *Codec) radarURL() string {
	if c == nil || c.RadarURL == "" {
		return DefaultRadarURL
	}
	return c.RadarURL
}

// replace runs a global substitution. regexp2 only fails on a match timeout and
// none of the patterns here set one, so the input is returned untouched on error.
func replace(re *regexp2.Regexp, input, replacement string) string {
	out, err := re.Replace(input, replacement, -1, -1)
	if err != nil {
		return input
	}
	return out
}
