package commands

import (
	"fmt"
	"io"

	"github.com/Notwinner0/prbody/internal/config"
)

// CmdEscape is the handler for the escape and unescape commands.
func CmdEscape(w io.Writer, path, configPath string, unescape bool) error {
	raw, err := readInput(path)
	if err != nil {
		return err
	}
	cfg := config.Default()
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	codec := cfg.Codec()
	if unescape {
		_, err = fmt.Fprint(w, codec.UnescapeHTML(raw))
	} else {
		_, err = fmt.Fprint(w, codec.EscapeHTML(raw))
	}
	return err
}
