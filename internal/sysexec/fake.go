package sysexec

import (
	"context"
	"strings"
	"sync"
)

// FakeRunner records commands instead of executing them. Tests configure
// failures, canned outputs, and missing tools by substring of the rendered
// command line or tool name.
type FakeRunner struct {
	mu sync.Mutex

	// Calls lists every command passed to Run or Output, in order.
	Calls []Command
	// FailOn maps a command-line substring to the error Run/Output returns.
	FailOn map[string]error
	// Outputs maps a command-line substring to the canned output of Output.
	Outputs map[string]string
	// Missing marks tools that LookPath reports as absent.
	Missing map[string]bool
}

// NewFakeRunner creates an empty recording runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		FailOn:  make(map[string]error),
		Outputs: make(map[string]string),
		Missing: make(map[string]bool),
	}
}

// Run records the command and returns a configured failure, if any.
func (f *FakeRunner) Run(_ context.Context, cmd Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, cmd)

	return f.failureFor(cmd)
}

// Output records the command and returns canned output and/or a failure.
func (f *FakeRunner) Output(_ context.Context, cmd Command) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, cmd)

	line := cmd.String()

	var out string

	for substring, canned := range f.Outputs {
		if strings.Contains(line, substring) {
			out = canned
			break
		}
	}

	return out, f.failureFor(cmd)
}

// LookPath reports presence unless the tool was marked missing.
func (f *FakeRunner) LookPath(tool string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return !f.Missing[tool]
}

// CommandLines renders every recorded call for assertion convenience.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, 0, len(f.Calls))
	for _, cmd := range f.Calls {
		lines = append(lines, cmd.String())
	}

	return lines
}

// failureFor matches the rendered command line against configured failures.
// Callers must hold f.mu.
func (f *FakeRunner) failureFor(cmd Command) error {
	line := cmd.String()
	for substring, err := range f.FailOn {
		if strings.Contains(line, substring) {
			return err
		}
	}

	return nil
}
