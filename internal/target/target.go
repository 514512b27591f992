package target

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/bfc/internal/ir"
)

// Target names.
const (
	Rust = "rust"
	Go   = "go"
)

// Default is the target used when none is configured.
const Default = Rust

// Backend renders generated program text for one target language.
// Implementations are stateless.
type Backend interface {
	// Name is the target name used in config and cache keys.
	Name() string

	// Ext is the file extension of generated sources, including the dot.
	Ext() string

	// DefaultCompiler is the toolchain command used when none is configured.
	DefaultCompiler() string

	// Prologue opens the program and its main routine.
	Prologue() string

	// Statement renders one run at the given loop depth, newline included.
	Statement(run ir.Run, depth int) string

	// Initializer closes main and defines the tape initializer seeded with capacity.
	Initializer(capacity int) string

	// Helper returns the static definition for c. ok is false for loop brackets.
	Helper(c ir.Command) (src string, ok bool)

	// BuildArgs assembles the toolchain argv (without the command itself).
	BuildArgs(b Build) []string
}

// Build describes one toolchain invocation.
type Build struct {
	Source string   // generated source file
	Output string   // executable path; empty lets the toolchain choose
	Opt    string   // optimization level
	Flags  []string // extra flags passed through verbatim
}

var backends = map[string]Backend{
	Rust: rustBackend{},
	Go:   goBackend{},
}

// Lookup returns the backend for name.
func Lookup(name string) (Backend, error) {
	if name == "" {
		name = Default
	}
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown target %q: must be one of %v", name, Names())
	}
	return b, nil
}

// Names returns the supported target names, sorted.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// indent renders depth levels of unit, plus one for main's body.
func indent(unit string, depth int) string {
	return strings.Repeat(unit, depth+1)
}
