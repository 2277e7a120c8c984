package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mackerelio/go-osstat/memory"

	"github.com/oshokin/sysmaint/internal/domain/step"
	"github.com/oshokin/sysmaint/internal/logger"
	"github.com/oshokin/sysmaint/internal/sysexec"
)

// DefaultRebootSentinel is the file Debian's update hooks create when a
// restart is needed to finish applying an upgrade.
const DefaultRebootSentinel = "/var/run/reboot-required"

// Options controls where the report reads from and writes to.
type Options struct {
	// Runner executes the query commands.
	Runner sysexec.Runner
	// Out receives the rendered report. Defaults to stdout.
	Out io.Writer
	// RebootSentinel is the pending-reboot marker path.
	RebootSentinel string
}

// Run prints the system health summary: identification, disk, memory, swap,
// failed units, and a pending-reboot notice. Every section is best-effort;
// the step always reports OK so a flaky query can never fail a maintenance
// run that already did its real work.
func Run(ctx context.Context, opts *Options) step.Result {
	ctx = logger.WithName(ctx, "report")

	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.RebootSentinel == "" {
		opts.RebootSentinel = DefaultRebootSentinel
	}

	printIdentification(ctx, opts)
	printSection(ctx, opts, "Root filesystem", sysexec.Command{Name: "df", Args: []string{"-h", "/"}})
	printMemory(ctx, opts)
	printSection(ctx, opts, "Swap devices", sysexec.Command{Name: "swapon", Args: []string{"--show"}})
	printFailedUnits(ctx, opts)
	printRebootNotice(opts)

	return step.OK()
}

// printIdentification shows the hostname and kernel release.
func printIdentification(ctx context.Context, opts *Options) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	kernel := "unknown"
	if out, err := opts.Runner.Output(ctx, sysexec.Command{Name: "uname", Args: []string{"-sr"}}); err == nil {
		kernel = strings.TrimSpace(out)
	}

	fmt.Fprintf(opts.Out, "Host:   %s\nKernel: %s\n", hostname, kernel)
}

// printSection runs one query command and prints its output under a heading.
func printSection(ctx context.Context, opts *Options, title string, cmd sysexec.Command) {
	out, err := opts.Runner.Output(ctx, cmd)
	if err != nil {
		logger.DebugKV(ctx, "Report query failed", "command", cmd.String(), "error", err)
		return
	}

	if out = strings.TrimSpace(out); out != "" {
		fmt.Fprintf(opts.Out, "%s:\n%s\n", title, out)
	}
}

// printMemory reads memory and swap figures from the kernel.
func printMemory(ctx context.Context, opts *Options) {
	stats, err := memory.Get()
	if err != nil {
		logger.DebugKV(ctx, "Memory stats unavailable", "error", err)
		return
	}

	fmt.Fprintf(opts.Out, "Memory: %s used / %s total (%s available)\n",
		mib(stats.Used), mib(stats.Total), mib(stats.Available))

	if stats.SwapTotal > 0 {
		fmt.Fprintf(opts.Out, "Swap:   %s used / %s total\n",
			mib(stats.SwapUsed), mib(stats.SwapTotal))
	}
}

// printFailedUnits lists failed service units when a service manager exists.
func printFailedUnits(ctx context.Context, opts *Options) {
	if !opts.Runner.LookPath("systemctl") {
		return
	}

	out, err := opts.Runner.Output(ctx, sysexec.Command{
		Name: "systemctl",
		Args: []string{"--failed", "--no-legend"},
	})
	if err != nil {
		logger.DebugKV(ctx, "Failed-units query failed", "error", err)
		return
	}

	if out = strings.TrimSpace(out); out == "" {
		fmt.Fprintln(opts.Out, "No failed units.")
	} else {
		fmt.Fprintf(opts.Out, "Failed units:\n%s\n", out)
	}
}

// printRebootNotice reports a pending reboot when the sentinel file exists.
func printRebootNotice(opts *Options) {
	if _, err := os.Stat(opts.RebootSentinel); err == nil {
		fmt.Fprintln(opts.Out, "Reboot required to finish applying updates.")
	}
}

// mib renders a byte count in whole mebibytes.
func mib(bytes uint64) string {
	return fmt.Sprintf("%d MiB", bytes/1024/1024)
}
