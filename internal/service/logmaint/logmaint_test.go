package logmaint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/sysmaint/internal/domain/step"
	"github.com/oshokin/sysmaint/internal/sysexec"
)

// TestRunAllToolsPresent pins the three invocations and their order.
func TestRunAllToolsPresent(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	result := Run(context.Background(), fake, 14)
	require.Equal(t, step.StatusOK, result.Status)
	require.Equal(t, []string{
		"logrotate --force /etc/logrotate.conf",
		"journalctl --vacuum-time=14d",
		"systemd-tmpfiles --clean",
	}, fake.CommandLines())
}

// TestRunRetentionIsConfigurable threads the configured window into the vacuum call.
func TestRunRetentionIsConfigurable(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	fake.Missing["logrotate"] = true
	fake.Missing["systemd-tmpfiles"] = true

	result := Run(context.Background(), fake, 30)
	require.Equal(t, step.StatusOK, result.Status)
	require.Equal(t, []string{"journalctl --vacuum-time=30d"}, fake.CommandLines())
}

// TestRunMissingTools skips every action without error when no tool exists.
func TestRunMissingTools(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	fake.Missing["logrotate"] = true
	fake.Missing["journalctl"] = true
	fake.Missing["systemd-tmpfiles"] = true

	result := Run(context.Background(), fake, 14)
	require.Equal(t, step.StatusOK, result.Status)
	require.Empty(t, fake.Calls)
}

// TestRunToleratesFailures keeps going past a failing action and reports
// a tolerated (never fatal) result.
func TestRunToleratesFailures(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	fake.FailOn["--vacuum-time"] = errors.New("journal files corrupted")

	result := Run(context.Background(), fake, 14)
	require.Equal(t, step.StatusTolerated, result.Status)
	require.Error(t, result.Err)
	require.False(t, result.Fatal())

	// The tmpfiles action still ran after the vacuum failure.
	require.Contains(t, fake.CommandLines(), "systemd-tmpfiles --clean")
}
