package harness

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/target"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names golden files.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the inline Brainfuck source.
	Program string `yaml:"program,omitempty"`

	// Source is a path to a .bf file, relative to the scenario file.
	// LoadScenario reads it into Program.
	Source string `yaml:"source,omitempty"`

	// Targets restricts the scenario to these backends. Empty means all.
	Targets []string `yaml:"targets,omitempty"`

	// InitialCells overrides the tape capacity hint.
	InitialCells *int `yaml:"initial_cells,omitempty"`

	// Stdin is fed to the compiled program.
	Stdin string `yaml:"stdin,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect is the behavior a scenario must observe.
type Expect struct {
	Stdout         *string  `yaml:"stdout,omitempty"`
	StdoutHex      string   `yaml:"stdout_hex,omitempty"`
	StderrContains string   `yaml:"stderr_contains,omitempty"`
	Exit           string   `yaml:"exit,omitempty"`
	Error          string   `yaml:"error,omitempty"`
	Helpers        []string `yaml:"helpers,omitempty"`
	Capacity       *int     `yaml:"capacity,omitempty"`
}

// Exit expectation constants.
const (
	ExitZero    = "zero"
	ExitNonZero = "nonzero"
)

// ExpectsError reports whether the scenario ends at translation.
func (s *Scenario) ExpectsError() bool {
	return s.Expect.Error != ""
}

// TargetNames returns the backends the scenario runs against.
func (s *Scenario) TargetNames() []string {
	if len(s.Targets) == 0 {
		return target.Names()
	}
	return s.Targets
}

// expectedStdout returns the wanted stdout bytes, or nil if stdout is not
// checked.
func (e *Expect) expectedStdout() ([]byte, error) {
	if e.StdoutHex != "" {
		return hex.DecodeString(e.StdoutHex)
	}
	if e.Stdout != nil {
		return []byte(*e.Stdout), nil
	}
	return nil, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "stdot:" vs "stdout:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Source != "" && scenario.Program == "" {
		src := scenario.Source
		if !filepath.IsAbs(src) {
			src = filepath.Join(filepath.Dir(path), src)
		}
		code, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: source file: %w", err)
		}
		if len(code) == 0 {
			return nil, fmt.Errorf("invalid scenario: source file %s is empty", src)
		}
		scenario.Program = string(code)
	} else if scenario.Source != "" {
		return nil, fmt.Errorf("invalid scenario: program and source are mutually exclusive")
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Program == "" {
		return fmt.Errorf("one of program or source is required")
	}

	for i, name := range s.Targets {
		if _, err := target.Lookup(name); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
	}

	if s.InitialCells != nil && *s.InitialCells < 0 {
		return fmt.Errorf("initial_cells must be non-negative")
	}

	if err := validateExpect(&s.Expect); err != nil {
		return fmt.Errorf("expect: %w", err)
	}

	return nil
}

func validateExpect(e *Expect) error {
	switch e.Exit {
	case "", ExitZero, ExitNonZero:
	default:
		return fmt.Errorf("exit must be %q or %q, got %q", ExitZero, ExitNonZero, e.Exit)
	}

	if e.Stdout != nil && e.StdoutHex != "" {
		return fmt.Errorf("stdout and stdout_hex are mutually exclusive")
	}
	if e.StdoutHex != "" {
		if _, err := hex.DecodeString(e.StdoutHex); err != nil {
			return fmt.Errorf("stdout_hex: %w", err)
		}
	}

	switch compiler.SyntaxKind(e.Error) {
	case "":
	case compiler.UnmatchedCloseBracket, compiler.UnmatchedOpenBracket:
		if e.Stdout != nil || e.StdoutHex != "" || e.StderrContains != "" || e.Exit != "" {
			return fmt.Errorf("error cannot be combined with runtime expectations")
		}
	default:
		return fmt.Errorf("unknown error kind %q", e.Error)
	}

	if e.Capacity != nil && *e.Capacity < 0 {
		return fmt.Errorf("capacity must be non-negative")
	}

	return nil
}
