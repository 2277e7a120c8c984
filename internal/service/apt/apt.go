package apt

import (
	"context"
	"strings"

	"github.com/oshokin/sysmaint/internal/sysexec"
)

// ToolName is the package manager executable the whole pipeline depends on.
const ToolName = "apt-get"

// noninteractiveEnv keeps dpkg from prompting; NEEDRESTART_MODE=a makes
// needrestart restart services touched by library upgrades automatically
// instead of asking.
//
//nolint:gochecknoglobals // Shared constant environment for every apt call.
var noninteractiveEnv = []string{
	"DEBIAN_FRONTEND=noninteractive",
	"NEEDRESTART_MODE=a",
}

// Reconfigure finishes any package left half-configured by an interrupted
// prior transaction.
func Reconfigure(ctx context.Context, runner sysexec.Runner) error {
	return runner.Run(ctx, sysexec.Command{
		Name: "dpkg",
		Args: []string{"--configure", "-a"},
		Env:  noninteractiveEnv,
	})
}

// FixBroken asks apt to satisfy broken dependencies. On a healthy system
// there is nothing to fix and some apt versions exit nonzero, so callers
// treat failures here as tolerated.
func FixBroken(ctx context.Context, runner sysexec.Runner) error {
	return runner.Run(ctx, sysexec.Command{
		Name: ToolName,
		Args: []string{"install", "-f", "-y"},
		Env:  noninteractiveEnv,
	})
}

// Update refreshes the package index. Nothing downstream is trustworthy
// without a fresh index, so callers treat failure as fatal.
func Update(ctx context.Context, runner sysexec.Runner) error {
	return runner.Run(ctx, sysexec.Command{
		Name: ToolName,
		Args: []string{"update"},
		Env:  noninteractiveEnv,
	})
}

// Upgrade applies pending upgrades. `--with-new-pkgs` lets upgrades pull in
// newly required dependencies, but plain `upgrade` (not dist-upgrade) never
// removes packages; removal-triggering upgrades stay a manual operation.
// Config-file conflicts resolve to confdef/confold so no prompt appears.
func Upgrade(ctx context.Context, runner sysexec.Runner) error {
	return runner.Run(ctx, sysexec.Command{
		Name: ToolName,
		Args: []string{
			"upgrade", "-y", "--with-new-pkgs",
			"-o", "Dpkg::Options::=--force-confdef",
			"-o", "Dpkg::Options::=--force-confold",
		},
		Env: noninteractiveEnv,
	})
}

// Cleanup purges packages no longer required as dependencies (including
// their configuration files) and empties the package caches. Each call runs
// in order and the first failure is returned: a failing cleanup usually
// means a broken package database worth surfacing.
func Cleanup(ctx context.Context, runner sysexec.Runner) error {
	calls := [][]string{
		{"autoremove", "--purge", "-y"},
		{"autoclean", "-y"},
		{"clean"},
	}

	for _, args := range calls {
		err := runner.Run(ctx, sysexec.Command{
			Name: ToolName,
			Args: args,
			Env:  noninteractiveEnv,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Install installs the named packages non-interactively.
func Install(ctx context.Context, runner sysexec.Runner, packages ...string) error {
	return runner.Run(ctx, sysexec.Command{
		Name: ToolName,
		Args: append([]string{"install", "-y"}, packages...),
		Env:  noninteractiveEnv,
	})
}

// IsInstalled reports whether dpkg knows the package as installed.
func IsInstalled(ctx context.Context, runner sysexec.Runner, name string) bool {
	out, err := runner.Output(ctx, sysexec.Command{
		Name: "dpkg",
		Args: []string{"-s", name},
	})
	if err != nil {
		return false
	}

	return strings.Contains(out, "Status: install ok installed")
}
