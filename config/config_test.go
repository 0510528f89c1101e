package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		caption  string
		file     string
		src      string
		expected *Config
		err      bool
	}{
		{
			caption: "toml",
			file:    "dervish.toml",
			src: `
grammar = "sexp"
skip = ["WS", "COMMENT"]
format = "json"
color = false

[log]
verbosity = 2
file = "dervish.log"
`,
			expected: &Config{
				Grammar: "sexp",
				Skip:    []string{"WS", "COMMENT"},
				Format:  FormatJSON,
				Color:   false,
				Log: LogConfig{
					Verbosity: 2,
					File:      "dervish.log",
				},
			},
		},
		{
			caption: "yaml",
			file:    "dervish.yaml",
			src: `
grammar: sexp
format: json
log:
  verbosity: 1
`,
			expected: &Config{
				Grammar: "sexp",
				Skip:    []string{"WS"},
				Format:  FormatJSON,
				Color:   true,
				Log: LogConfig{
					Verbosity: 1,
				},
			},
		},
		{
			caption:  "an empty file keeps the defaults",
			file:     "dervish.yml",
			src:      "",
			expected: Default(),
		},
		{
			caption: "an unknown extension",
			file:    "dervish.ini",
			src:     "grammar = json",
			err:     true,
		},
		{
			caption: "an invalid format",
			file:    "dervish.toml",
			src:     `format = "xml"`,
			err:     true,
		},
		{
			caption: "a negative verbosity",
			file:    "dervish.toml",
			src:     "[log]\nverbosity = -1\n",
			err:     true,
		},
		{
			caption: "a broken toml file",
			file:    "dervish.toml",
			src:     "grammar = ",
			err:     true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.src), 0644))

			c, err := Load(path)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
