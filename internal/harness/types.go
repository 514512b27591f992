package harness

import (
	"fmt"

	"github.com/roach88/bfc/internal/compiler"
)

// TargetResult is the outcome of one scenario on one backend.
type TargetResult struct {
	Target string `json:"target"`
	Pass   bool   `json:"pass"`

	// Skipped is set when the target's toolchain is not installed.
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`

	Errors []string `json:"errors,omitempty"`

	// Code is the generated program, set only when translation succeeded.
	Code  string          `json:"-"`
	Stats *compiler.Stats `json:"stats,omitempty"`

	Stdout   []byte `json:"-"`
	ExitCode int    `json:"exit_code"`
}

func (r *TargetResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Result is the outcome of a test scenario execution.
type Result struct {
	Name string `json:"name"`

	// Pass is true when no target reported an error. A skipped target
	// passes unless its translation already failed an expectation.
	Pass bool `json:"pass"`

	Targets []TargetResult `json:"targets"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(name string) *Result {
	return &Result{
		Name:    name,
		Pass:    true,
		Targets: []TargetResult{},
	}
}

// add records a target outcome and folds it into Pass.
func (r *Result) add(tr TargetResult) {
	r.Targets = append(r.Targets, tr)
	if !tr.Pass {
		r.Pass = false
	}
}

// Errors flattens target errors, each prefixed with its target name.
func (r *Result) Errors() []string {
	errs := []string{}
	for _, tr := range r.Targets {
		for _, e := range tr.Errors {
			errs = append(errs, tr.Target+": "+e)
		}
	}
	return errs
}

// Skipped lists the targets that were not run.
func (r *Result) Skipped() []string {
	names := []string{}
	for _, tr := range r.Targets {
		if tr.Skipped {
			names = append(names, tr.Target)
		}
	}
	return names
}

// Target returns the outcome for name, or nil.
func (r *Result) Target(name string) *TargetResult {
	for i := range r.Targets {
		if r.Targets[i].Target == name {
			return &r.Targets[i]
		}
	}
	return nil
}
