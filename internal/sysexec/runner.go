package sysexec

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/oshokin/sysmaint/internal/logger"
)

// Command describes one external invocation: the tool, its arguments, and
// any extra environment entries appended to the inherited environment.
type Command struct {
	// Name is the executable looked up on PATH.
	Name string
	// Args are the positional arguments.
	Args []string
	// Env holds extra KEY=VALUE pairs (e.g. DEBIAN_FRONTEND=noninteractive).
	Env []string
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner abstracts external command execution so the pipeline steps can be
// exercised in tests without touching the host.
type Runner interface {
	// Run executes the command, streaming its output to the narration writer.
	Run(ctx context.Context, cmd Command) error
	// Output executes the command and returns its combined output.
	Output(ctx context.Context, cmd Command) (string, error)
	// LookPath reports whether the tool is present on PATH.
	LookPath(tool string) bool
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Stdout receives the `+ command` narration and command output.
	Stdout io.Writer
	// DryRun prints the narration without executing anything.
	DryRun bool
}

// NewRunner creates an ExecRunner writing narration to stdout.
func NewRunner(dryRun bool) *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		DryRun: dryRun,
	}
}

// Run executes the command, wiring both output streams to the narration
// writer so the operator sees what the underlying tool printed.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	r.narrate(cmd)

	if r.DryRun {
		return nil
	}

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Stdout = r.Stdout
	execCmd.Stderr = r.Stdout
	execCmd.Env = append(os.Environ(), cmd.Env...)

	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.String(), err)
	}

	return nil
}

// Output executes the command and captures its combined output instead of
// streaming it. Used for queries (service state, swap status) whose output
// the caller interprets or reprints.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) (string, error) {
	logger.DebugKV(ctx, "Querying external command", "command", cmd.String())

	if r.DryRun {
		return "", nil
	}

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Env = append(os.Environ(), cmd.Env...)

	out, err := execCmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w", cmd.String(), err)
	}

	return string(out), nil
}

// LookPath reports whether the tool resolves on PATH.
func (r *ExecRunner) LookPath(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

// narrate prints the `+ command` line that precedes every execution.
func (r *ExecRunner) narrate(cmd Command) {
	_, _ = fmt.Fprintf(r.Stdout, "+ %s\n", cmd.String())
}
