// Package config loads jsfinder settings.
//
// Precedence, lowest to highest:
//  1. built-in defaults
//  2. YAML file (--config, or .jsfinder.yaml in the working directory)
//  3. JSFINDER_* environment variables (JSFINDER_MAX_DEPTH -> max_depth)
//  4. command-line flags, applied by the caller
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"jsfinder/internal/finder"
)

const (
	// DefaultFile is read when present and no --config is given.
	DefaultFile = ".jsfinder.yaml"
	envPrefix   = "JSFINDER_"

	maxConfigFileSize = 1024 * 1024
)

type Config struct {
	Dataset     string        `koanf:"dataset"`
	Suffix      string        `koanf:"suffix"`
	Pattern     string        `koanf:"pattern"`
	Exclude     []string      `koanf:"exclude"`
	MaxDepth    int           `koanf:"max_depth"`
	Concurrency int           `koanf:"concurrency"`
	Timeout     time.Duration `koanf:"timeout"`
	Debug       bool          `koanf:"debug"`
	LogFile     string        `koanf:"log_file"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Dataset:     "data.json",
		Suffix:      ".js",
		MaxDepth:    64,
		Concurrency: 16,
		Timeout:     10 * time.Second,
	}
}

// Load reads the YAML file at path, then the environment. An empty path falls
// back to DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	file := path
	if file == "" {
		file = DefaultFile
	}
	content, err := readFile(file)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	case path == "" && errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Exclude = splitList(cfg.Exclude)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	return io.ReadAll(f)
}

// splitList expands comma-separated items, as produced by environment variables.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout)
	}
	if c.Pattern == "" && c.Suffix == "" {
		return errors.New("one of suffix or pattern is required")
	}
	return nil
}

// Predicate builds the leaf matcher: pattern when set, otherwise suffix, minus
// anything matched by the exclude lines.
func (c *Config) Predicate() (finder.Predicate, error) {
	base := finder.HasSuffix(c.Suffix)
	if c.Pattern != "" {
		p, err := finder.Glob(c.Pattern)
		if err != nil {
			return nil, err
		}
		base = p
	}
	if len(c.Exclude) == 0 {
		return base, nil
	}
	return finder.All(base, finder.Ignore(c.Exclude...)), nil
}

// FinderOptions maps the traversal settings onto finder options.
func (c *Config) FinderOptions() []finder.Option {
	return []finder.Option{finder.WithMaxDepth(c.MaxDepth), finder.WithConcurrency(c.Concurrency)}
}
