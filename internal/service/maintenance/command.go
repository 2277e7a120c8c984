package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/sysmaint/internal/config"
	"github.com/oshokin/sysmaint/internal/domain/step"
	"github.com/oshokin/sysmaint/internal/logger"
	"github.com/oshokin/sysmaint/internal/service/apt"
	"github.com/oshokin/sysmaint/internal/service/logmaint"
	"github.com/oshokin/sysmaint/internal/service/report"
	"github.com/oshokin/sysmaint/internal/service/zram"
	"github.com/oshokin/sysmaint/internal/sysexec"
)

// Options wires the pipeline's collaborators. Zero-value fields fall back
// to production implementations; tests substitute fakes.
type Options struct {
	// Config is the immutable run configuration.
	Config *config.Config
	// Runner executes external commands.
	Runner sysexec.Runner
	// Out receives the `==> phase` narration. Defaults to stdout.
	Out io.Writer
	// Geteuid reports the effective user id. Defaults to os.Geteuid.
	Geteuid func() int
	// Processes lists running processes for the busy-package-manager probe.
	// Defaults to ps.Processes.
	Processes func() ([]ps.Process, error)
	// RebootSentinel overrides the pending-reboot marker path in the report.
	RebootSentinel string
}

var (
	// errRootRequired is returned when the tool runs without administrative privilege.
	errRootRequired = errors.New("administrative privilege required, run with sudo")
	// errPackageManagerMissing is returned when apt-get is not on PATH.
	errPackageManagerMissing = errors.New("apt-get not found, this tool maintains Debian-based hosts only")
)

// busyExecutables are package-manager processes whose presence means another
// transaction may be in flight.
//
//nolint:gochecknoglobals // Fixed probe list.
var busyExecutables = map[string]bool{
	"apt":             true,
	"apt-get":         true,
	"aptitude":        true,
	"dpkg":            true,
	"unattended-upgr": true,
}

// namedStep pairs a narration phase with its implementation.
type namedStep struct {
	name string
	run  func(ctx context.Context) step.Result
}

// service carries resolved collaborators through one pipeline run.
type service struct {
	cfg            *config.Config
	runner         sysexec.Runner
	out            io.Writer
	geteuid        func() int
	processes      func() ([]ps.Process, error)
	rebootSentinel string
}

// Run executes the full maintenance pipeline: preflight, package repair,
// update/upgrade, cache cleanup, log trimming, zram setup, flatpak pruning,
// and the status report, strictly in that order. The first fatal step
// result aborts the run; tolerated failures and skips are logged and the
// run continues. A nil return means the host completed maintenance.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "maintenance")

	s := &service{
		cfg:            opts.Config,
		runner:         opts.Runner,
		out:            opts.Out,
		geteuid:        opts.Geteuid,
		processes:      opts.Processes,
		rebootSentinel: opts.RebootSentinel,
	}
	if s.out == nil {
		s.out = os.Stdout
	}

	if s.geteuid == nil {
		s.geteuid = os.Geteuid
	}

	if s.processes == nil {
		s.processes = ps.Processes
	}

	steps := []namedStep{
		{"preflight checks", s.preflight},
		{"repair interrupted transactions", s.repair},
		{"update and upgrade packages", s.updateUpgrade},
		{"clean package caches", s.cleanup},
		{"trim logs", s.logMaintenance},
		{"configure zram swap", s.zramSwap},
		{"prune flatpak runtimes", s.flatpak},
		{"system status", s.report},
	}

	for _, current := range steps {
		fmt.Fprintf(s.out, "==> %s\n", current.name)

		result := current.run(ctx)
		switch result.Status {
		case step.StatusOK:
		case step.StatusSkipped:
			fmt.Fprintf(s.out, "skipped: %s\n", result.Reason)
		case step.StatusTolerated:
			logger.WarnKV(ctx, "Step failed, continuing", "step", current.name, "error", result.Err)
		case step.StatusFatal:
			return fmt.Errorf("%s: %w", current.name, result.Err)
		}
	}

	return nil
}

// preflight verifies privilege and the package manager, then probes for a
// concurrent package-manager process. A busy package manager is only a
// warning: apt's own locking serializes the actual transactions.
func (s *service) preflight(ctx context.Context) step.Result {
	if s.geteuid() != 0 {
		return step.Fail(errRootRequired)
	}

	if !s.runner.LookPath(apt.ToolName) {
		return step.Fail(errPackageManagerMissing)
	}

	processes, err := s.processes()
	if err != nil {
		logger.DebugKV(ctx, "Process scan unavailable", "error", err)
		return step.OK()
	}

	for _, process := range processes {
		name := strings.ToLower(process.Executable())
		if busyExecutables[name] {
			return step.Tolerate(fmt.Errorf("package manager process %q (pid %d) is running", name, process.Pid()))
		}
	}

	return step.OK()
}

// repair reconciles interrupted dpkg transactions and asks apt to fix
// broken dependencies. The dependency fix is tolerated: a fresh system has
// nothing to fix and some apt versions exit nonzero for that, and a truly
// broken database fails the index refresh right after anyway.
func (s *service) repair(ctx context.Context) step.Result {
	if err := apt.Reconfigure(ctx, s.runner); err != nil {
		return step.Fail(err)
	}

	if err := apt.FixBroken(ctx, s.runner); err != nil {
		return step.Tolerate(err)
	}

	return step.OK()
}

// updateUpgrade refreshes the index and applies upgrades; both are fatal.
func (s *service) updateUpgrade(ctx context.Context) step.Result {
	if err := apt.Update(ctx, s.runner); err != nil {
		return step.Fail(err)
	}

	if err := apt.Upgrade(ctx, s.runner); err != nil {
		return step.Fail(err)
	}

	return step.OK()
}

// cleanup purges obsolete packages and caches; failures are fatal because
// they usually indicate a broken package database worth surfacing.
func (s *service) cleanup(ctx context.Context) step.Result {
	if err := apt.Cleanup(ctx, s.runner); err != nil {
		return step.Fail(err)
	}

	return step.OK()
}

// logMaintenance trims logs within the configured retention window.
func (s *service) logMaintenance(ctx context.Context) step.Result {
	return logmaint.Run(ctx, s.runner, s.cfg.JournalRetentionDays)
}

// zramSwap conditionally sets up the compressed-RAM swap device.
func (s *service) zramSwap(ctx context.Context) step.Result {
	return zram.Setup(ctx, s.runner, zram.Options{
		Enabled:     s.cfg.EnableZram,
		SizePercent: s.cfg.ZramSizePercent,
		ConfigPath:  s.cfg.ZramConfigPath,
	})
}

// flatpak prunes unused sandboxed runtimes when the tool exists.
func (s *service) flatpak(ctx context.Context) step.Result {
	if !s.runner.LookPath("flatpak") {
		return step.Skip("flatpak not installed")
	}

	err := s.runner.Run(ctx, sysexec.Command{
		Name: "flatpak",
		Args: []string{"uninstall", "--unused", "-y"},
	})
	if err != nil {
		return step.Tolerate(err)
	}

	return step.OK()
}

// report prints the end-of-run health summary; it never fails the run.
func (s *service) report(ctx context.Context) step.Result {
	return report.Run(ctx, &report.Options{
		Runner:         s.runner,
		Out:            s.out,
		RebootSentinel: s.rebootSentinel,
	})
}
