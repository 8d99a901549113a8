package commands

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Notwinner0/prbody/internal/config"
)

// CmdParse is the handler for the parse command. It prints the free text and
// commits found in the body read from path as YAML.
func CmdParse(w io.Writer, path, configPath string) error {
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

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Codec().ParseBody(raw)); err != nil {
		return errors.Wrap(err, "encoding body")
	}
	return enc.Close()
}
