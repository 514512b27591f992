// Package config loads bfc.yaml project files.
//
// A project file sets defaults for the build flags. Values are decoded
// strictly (unknown keys are errors) and then checked against an embedded
// CUE schema; command-line flags override whatever the file sets.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bfc/internal/target"
)

//go:embed schema.cue
var schemaCUE string

// FileName is the project file looked up next to the source.
const FileName = "bfc.yaml"

// Config holds build settings.
type Config struct {
	Target       string   `yaml:"target" json:"target"`
	Compiler     string   `yaml:"compiler,omitempty" json:"compiler,omitempty"`
	Opt          string   `yaml:"opt" json:"opt"`
	Flags        []string `yaml:"flags,omitempty" json:"flags,omitempty"`
	InitialCells *int     `yaml:"initial_cells,omitempty" json:"initial_cells,omitempty"`
	Cache        string   `yaml:"cache,omitempty" json:"cache,omitempty"`
}

// Default returns the settings used when no project file exists.
func Default() *Config {
	return &Config{
		Target: target.Default,
		Opt:    "2",
	}
}

// Problem is one schema violation. Message already names the field.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaError lists every schema violation found in a config.
type SchemaError struct {
	Path     string
	Problems []Problem
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	prefix := "invalid config"
	if e.Path != "" {
		prefix = "invalid config " + e.Path
	}
	return prefix + ": " + strings.Join(msgs, "; ")
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Discover returns the project file in dir, or "" when there is none.
func Discover(dir string) string {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Validate checks c against the embedded schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(ctx.Encode(c.values()))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return toSchemaError(err)
	}
	return nil
}

// values renders the set fields only, so absent optionals stay absent
// rather than becoming null.
func (c *Config) values() map[string]any {
	m := map[string]any{
		"target": c.Target,
		"opt":    c.Opt,
	}
	if c.Compiler != "" {
		m["compiler"] = c.Compiler
	}
	if len(c.Flags) > 0 {
		m["flags"] = c.Flags
	}
	if c.InitialCells != nil {
		m["initial_cells"] = *c.InitialCells
	}
	if c.Cache != "" {
		m["cache"] = c.Cache
	}
	return m
}

func toSchemaError(err error) *SchemaError {
	se := &SchemaError{}
	for _, e := range cueerrors.Errors(err) {
		se.Problems = append(se.Problems, Problem{
			Field:   strings.Join(e.Path(), "."),
			Message: e.Error(),
		})
	}
	if len(se.Problems) == 0 {
		se.Problems = []Problem{{Message: err.Error()}}
	}
	return se
}
