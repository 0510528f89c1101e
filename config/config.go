package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	FormatTree = "tree"
	FormatJSON = "json"
)

type LogConfig struct {
	// Verbosity is the commonlog verbosity. 0 keeps the log quiet.
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

type Config struct {
	// Grammar is the registered grammar used when a command is given no --grammar flag.
	Grammar string `toml:"grammar" yaml:"grammar"`

	// Skip lists the token kinds the tokenize command drops.
	Skip []string `toml:"skip" yaml:"skip"`

	// Format is the output format of the parse command: tree or json.
	Format string `toml:"format" yaml:"format"`

	Color bool      `toml:"color" yaml:"color"`
	Log   LogConfig `toml:"log" yaml:"log"`
}

func Default() *Config {
	return &Config{
		Grammar: "json",
		Skip:    []string{"WS"},
		Format:  FormatTree,
		Color:   true,
	}
}

// Load reads a TOML or YAML file chosen by the extension of path. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(src, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(src, c)
	default:
		return nil, fmt.Errorf("unsupported config file extension: %v", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %v: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Grammar == "" {
		return fmt.Errorf("grammar must not be empty")
	}
	switch c.Format {
	case FormatTree, FormatJSON:
	default:
		return fmt.Errorf("invalid format: %v (want %v or %v)", c.Format, FormatTree, FormatJSON)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log verbosity must be 0 or greater: %v", c.Log.Verbosity)
	}
	for _, k := range c.Skip {
		if k == "" {
			return fmt.Errorf("a skipped kind name must not be empty")
		}
	}
	return nil
}
