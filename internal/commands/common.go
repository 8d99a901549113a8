package commands

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Notwinner0/prbody/internal/config"
	"github.com/Notwinner0/prbody/internal/repo"
)

// loadConfig prefers an explicit config file, then the [prbody] section of the
// repository's own config, then the defaults.
func loadConfig(configPath string, gitRepo *repo.Repository) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	if gitRepo != nil {
		if path := gitRepo.ConfigPath(); path != "" {
			return config.Load(path)
		}
	}
	log.Debug().Msg("No config file, using defaults")
	return config.Default(), nil
}

// readInput reads path, or standard input when path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), errors.Wrap(err, "reading stdin")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}
