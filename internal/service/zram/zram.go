package zram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/sysmaint/internal/domain/step"
	"github.com/oshokin/sysmaint/internal/logger"
	"github.com/oshokin/sysmaint/internal/service/apt"
	"github.com/oshokin/sysmaint/internal/sysexec"
)

// Options controls the swap augmentation step.
type Options struct {
	// Enabled gates the whole step.
	Enabled bool
	// SizePercent sizes the zram device as a percentage of physical RAM.
	SizePercent int
	// ConfigPath is the zramswap settings file location.
	ConfigPath string
}

const (
	// packageName is the Debian package shipping zramswap.
	packageName = "zram-tools"

	// serviceName is the systemd unit started by zram-tools.
	serviceName = "zramswap"

	// rivalService is the disk-file swap mechanism that must never run
	// alongside a zram device.
	rivalService = "dphys-swapfile"

	// swapPriority makes the kernel prefer the zram device over any
	// disk-backed swap that may also exist.
	swapPriority = 100

	// configPermissions: owner-writable, world-readable, like any other
	// file under /etc/default.
	configPermissions = 0o644
)

// Setup installs and configures a compressed-RAM swap device. The decision
// path is terminal at every branch: disabled configuration or an active
// dphys-swapfile service skips the step entirely; otherwise the package is
// installed if needed, the settings file is created only if absent, and the
// service is enabled and restarted. Nothing in this step is fatal to the run.
func Setup(ctx context.Context, runner sysexec.Runner, opts Options) step.Result {
	ctx = logger.WithName(ctx, "zram")

	if !opts.Enabled {
		return step.Skip("disabled by configuration")
	}

	if rivalActive(ctx, runner) {
		return step.Skip(rivalService + " service is active; refusing to run two swap mechanisms")
	}

	if apt.IsInstalled(ctx, runner, packageName) {
		logger.Debugf(ctx, "%s already installed", packageName)
	} else if err := apt.Install(ctx, runner, packageName); err != nil {
		logger.WarnKV(ctx, "Package install failed", "package", packageName, "error", err)
		return step.Tolerate(err)
	}

	created, err := ensureConfig(opts.ConfigPath, opts.SizePercent)
	if err != nil {
		logger.WarnKV(ctx, "Settings file creation failed", "path", opts.ConfigPath, "error", err)
		return step.Tolerate(err)
	}

	if created {
		logger.InfoKV(ctx, "Wrote zramswap settings", "path", opts.ConfigPath, "percent", opts.SizePercent)
	} else {
		logger.InfoKV(ctx, "Keeping existing zramswap settings", "path", opts.ConfigPath)
	}

	if !runner.LookPath("systemctl") {
		logger.Warnf(ctx, "systemctl not found; start the %s service manually", serviceName)
		return step.OK()
	}

	var errs []error

	serviceCalls := [][]string{
		{"enable", "--now", serviceName},
		{"restart", serviceName},
	}
	for _, args := range serviceCalls {
		err := runner.Run(ctx, sysexec.Command{Name: "systemctl", Args: args})
		if err != nil {
			logger.WarnKV(ctx, "Service action failed", "action", args[0], "error", err)
			errs = append(errs, err)
		}
	}

	showSwap(ctx, runner)

	if len(errs) > 0 {
		return step.Tolerate(errs[0])
	}

	return step.OK()
}

// rivalActive reports whether the dphys-swapfile service is currently
// running. Without systemctl there is no service to conflict with.
func rivalActive(ctx context.Context, runner sysexec.Runner) bool {
	if !runner.LookPath("systemctl") {
		return false
	}

	out, err := runner.Output(ctx, sysexec.Command{
		Name: "systemctl",
		Args: []string{"is-active", rivalService},
	})

	// `is-active` exits nonzero for every state except "active".
	return err == nil && strings.TrimSpace(out) == "active"
}

// ensureConfig creates the settings file if it does not exist and reports
// whether a file was written. An existing file is never touched, preserving
// manual edits. Creation is atomic: the content lands in a temporary file
// in the target directory and is renamed into place, so a crash mid-write
// never leaves a partial file at the final path.
func ensureConfig(path string, percent int) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return false, fmt.Errorf("create temp settings: %w", err)
	}

	tmpName := tmp.Name()

	// Best-effort removal covers every error path below; after a successful
	// rename the temp name no longer exists and the call is a no-op.
	defer func() {
		_ = os.Remove(tmpName)
	}()

	// Compression algorithm and level are deliberately left to the package
	// defaults; only sizing and priority are pinned.
	content := fmt.Sprintf(
		"# zramswap settings written by sysmaint.\n"+
			"# This file is created once and never overwritten; edit freely.\n"+
			"PERCENT=%d\nPRIORITY=%d\n",
		percent, swapPriority)

	if _, err = tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("write settings: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("sync settings: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return false, fmt.Errorf("close settings: %w", err)
	}

	if err = os.Chmod(tmpName, configPermissions); err != nil {
		return false, fmt.Errorf("chmod settings: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return false, fmt.Errorf("install settings: %w", err)
	}

	return true, nil
}

// showSwap displays the current swap layout, best-effort.
func showSwap(ctx context.Context, runner sysexec.Runner) {
	out, err := runner.Output(ctx, sysexec.Command{
		Name: "swapon",
		Args: []string{"--show"},
	})
	if err != nil {
		logger.DebugKV(ctx, "swapon query failed", "error", err)
		return
	}

	if out = strings.TrimSpace(out); out != "" {
		logger.Infof(ctx, "Current swap devices:\n%s", out)
	}
}
