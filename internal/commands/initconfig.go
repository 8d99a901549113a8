package commands

import (
	"os"

	"github.com/pkg/errors"

	"github.com/Notwinner0/prbody/internal/config"
)

// CmdInitConfig writes the default settings to path, refusing to overwrite an existing file.
func CmdInitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%s already exists", path)
	}
	return config.Save(config.Default(), path)
}
