package logmaint

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/sysmaint/internal/domain/step"
	"github.com/oshokin/sysmaint/internal/logger"
	"github.com/oshokin/sysmaint/internal/sysexec"
)

// logrotateConfig is the stock entry point for the host's rotation policy.
const logrotateConfig = "/etc/logrotate.conf"

// Run performs the three log maintenance actions: force a rotation cycle,
// vacuum journald entries older than the retention window, and apply the
// tmpfiles cleanup policy. Every action is best-effort and an action whose
// tool is absent is skipped outright. Rotation runs before the journal
// vacuum so entries an out-of-cycle rotation would archive are not pruned
// first; the two target different log stores, so this is a convention, not
// a dependency.
func Run(ctx context.Context, runner sysexec.Runner, retentionDays int) step.Result {
	ctx = logger.WithName(ctx, "logmaint")

	var errs []error

	if runner.LookPath("logrotate") {
		err := runner.Run(ctx, sysexec.Command{
			Name: "logrotate",
			Args: []string{"--force", logrotateConfig},
		})
		if err != nil {
			logger.WarnKV(ctx, "Forced log rotation failed", "error", err)
			errs = append(errs, err)
		}
	} else {
		logger.Info(ctx, "logrotate not found, skipping rotation")
	}

	if runner.LookPath("journalctl") {
		err := runner.Run(ctx, sysexec.Command{
			Name: "journalctl",
			Args: []string{fmt.Sprintf("--vacuum-time=%dd", retentionDays)},
		})
		if err != nil {
			logger.WarnKV(ctx, "Journal vacuum failed", "error", err)
			errs = append(errs, err)
		}
	} else {
		logger.Info(ctx, "journalctl not found, skipping journal vacuum")
	}

	if runner.LookPath("systemd-tmpfiles") {
		err := runner.Run(ctx, sysexec.Command{
			Name: "systemd-tmpfiles",
			Args: []string{"--clean"},
		})
		if err != nil {
			logger.WarnKV(ctx, "Tmpfiles cleanup failed", "error", err)
			errs = append(errs, err)
		}
	} else {
		logger.Info(ctx, "systemd-tmpfiles not found, skipping temp cleanup")
	}

	if len(errs) > 0 {
		return step.Tolerate(errors.Join(errs...))
	}

	return step.OK()
}
