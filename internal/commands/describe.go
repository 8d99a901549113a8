package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/Notwinner0/prbody/internal/pullrequest"
)

// CmdDescribe is the handler for the describe command.
func CmdDescribe(w io.Writer, number int, title, path string) error {
	raw, err := readInput(path)
	if err != nil {
		return err
	}
	pr := pullrequest.New(number, title, raw)

	var b strings.Builder
	fmt.Fprintln(&b, pr)
	fmt.Fprintf(&b, "Opened: %s\n", pr.OpenedLabel())
	if pr.Body != "" {
		fmt.Fprintf(&b, "\n%s\n", pr.Body)
	}
	fmt.Fprintf(&b, "\nCommits (%d):\n", len(pr.Commits))
	for _, c := range pr.Commits {
		subject := "???"
		if c.Message != "" {
			subject = strings.SplitN(c.Message, "\n", 2)[0]
		}
		fmt.Fprintf(&b, "  %s %s\n", c.Hash, subject)
	}

	_, err = io.WriteString(w, b.String())
	return err
}
