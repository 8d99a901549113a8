// Package config reads and writes the [prbody] section of an INI file, usually
// the repository's .git/config.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/bigkevmcd/go-configparser"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Notwinner0/prbody/internal/body"
)

// Section is the INI section holding prbody settings.
const Section = "prbody"

const (
	keyLinkify    = "linkify"
	keyRadarURL   = "radar-url"
	keyHashLength = "hash-length"
	keyMaxCommits = "max-commits"
)

// Config controls how bodies are rendered and which commits are collected.
type Config struct {
	Linkify    bool
	RadarURL   string
	HashLength int
	MaxCommits int
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Linkify:    true,
		RadarURL:   body.DefaultRadarURL,
		HashLength: 12,
		MaxCommits: 0,
	}
}

// Codec returns a body codec honoring the configured radar URL.
func (c *Config) Codec() *body.Codec {
	return &body.Codec{RadarURL: c.RadarURL}
}

// Load reads path and overlays its [prbody] section on the defaults.
func Load(path string) (*Config, error) {
	p, err := parseTrimmed(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if !p.HasSection(Section) {
		log.Debug().Str("path", path).Msg("No prbody section, using defaults")
		return cfg, nil
	}

	if ok, _ := p.HasOption(Section, keyLinkify); ok {
		v, err := p.Get(Section, keyLinkify)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s.%s", Section, keyLinkify)
		}
		cfg.Linkify, err = parseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", Section, keyLinkify)
		}
	}
	if ok, _ := p.HasOption(Section, keyRadarURL); ok {
		v, err := p.Get(Section, keyRadarURL)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s.%s", Section, keyRadarURL)
		}
		if v != "" {
			if err := checkRadarURL(v); err != nil {
				return nil, errors.Wrapf(err, "%s.%s", Section, keyRadarURL)
			}
			cfg.RadarURL = v
		}
	}
	if cfg.HashLength, err = getCount(p, keyHashLength, cfg.HashLength); err != nil {
		return nil, err
	}
	if cfg.MaxCommits, err = getCount(p, keyMaxCommits, cfg.MaxCommits); err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Bool("linkify", cfg.Linkify).Int("hash-length", cfg.HashLength).Msg("Loaded config")
	return cfg, nil
}

// Save writes cfg as a fresh [prbody] section to path.
func Save(cfg *Config, path string) error {
	p := configparser.New()
	if err := p.AddSection(Section); err != nil {
		return errors.Wrap(err, "adding section")
	}
	values := [][2]string{
		{keyLinkify, strconv.FormatBool(cfg.Linkify)},
		{keyRadarURL, cfg.RadarURL},
		{keyHashLength, strconv.Itoa(cfg.HashLength)},
		{keyMaxCommits, strconv.Itoa(cfg.MaxCommits)},
	}
	for _, kv := range values {
		if err := p.Set(Section, kv[0], kv[1]); err != nil {
			return errors.Wrapf(err, "setting %s", kv[0])
		}
	}
	return errors.Wrapf(p.SaveWithDelimiter(path, "="), "saving %s", path)
}

// parseTrimmed parses an INI file after stripping leading whitespace from every
// line, since git indents keys with tabs.
func parseTrimmed(path string) (*configparser.ConfigParser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	tmpFile, err := os.CreateTemp("", "prbody_config_*.ini")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp config")
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(strings.Join(lines, "\n")); err != nil {
		tmpFile.Close()
		return nil, errors.Wrap(err, "writing temp config")
	}
	tmpFile.Close()

	p, err := configparser.NewConfigParserFromFile(tmpFile.Name())
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return p, nil
}

// checkRadarURL rejects bases whose links UnescapeHTML could not strip again.
func checkRadarURL(v string) error {
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return errors.Errorf("radar url %q must start with http:// or https://", v)
	}
	if strings.ContainsAny(v, "\"\n") {
		return errors.Errorf("radar url %q must not contain quotes or newlines", v)
	}
	return nil
}

func getCount(p *configparser.ConfigParser, key string, def int) (int, error) {
	if ok, _ := p.HasOption(Section, key); !ok {
		return def, nil
	}
	v, err := p.Get(Section, key)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s.%s", Section, key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Wrapf(err, "%s.%s", Section, key)
	}
	if n < 0 {
		return 0, errors.Errorf("%s.%s must not be negative, got %d", Section, key, n)
	}
	return n, nil
}

// parseBool accepts the spellings git itself accepts for booleans.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, errors.Errorf("invalid boolean %q", v)
}
