package apt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/sysmaint/internal/sysexec"
)

// TestUpgradeFlags pins the safety-relevant upgrade invocation: new
// dependencies allowed, removals never, conffile prompts auto-resolved.
func TestUpgradeFlags(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	require.NoError(t, Upgrade(context.Background(), fake))

	require.Len(t, fake.Calls, 1)

	call := fake.Calls[0]
	require.Equal(t, ToolName, call.Name)
	require.Equal(t, []string{
		"upgrade", "-y", "--with-new-pkgs",
		"-o", "Dpkg::Options::=--force-confdef",
		"-o", "Dpkg::Options::=--force-confold",
	}, call.Args)
	require.Contains(t, call.Env, "DEBIAN_FRONTEND=noninteractive")
	require.Contains(t, call.Env, "NEEDRESTART_MODE=a")
}

// TestCleanupOrderAndAbort verifies the three cache calls run in order and
// stop at the first failure.
func TestCleanupOrderAndAbort(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	require.NoError(t, Cleanup(context.Background(), fake))
	require.Equal(t, []string{
		"apt-get autoremove --purge -y",
		"apt-get autoclean -y",
		"apt-get clean",
	}, fake.CommandLines())

	fake = sysexec.NewFakeRunner()
	fake.FailOn["autoclean"] = errors.New("dpkg database locked")

	err := Cleanup(context.Background(), fake)
	require.Error(t, err)
	// `clean` never ran after the autoclean failure.
	require.Equal(t, []string{
		"apt-get autoremove --purge -y",
		"apt-get autoclean -y",
	}, fake.CommandLines())
}

// TestReconfigureAndFixBroken pin the repair invocations.
func TestReconfigureAndFixBroken(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	require.NoError(t, Reconfigure(context.Background(), fake))
	require.NoError(t, FixBroken(context.Background(), fake))
	require.Equal(t, []string{
		"dpkg --configure -a",
		"apt-get install -f -y",
	}, fake.CommandLines())
}

// TestIsInstalled interprets dpkg -s output.
func TestIsInstalled(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	fake.Outputs["dpkg -s zram-tools"] = "Package: zram-tools\nStatus: install ok installed\n"
	require.True(t, IsInstalled(context.Background(), fake, "zram-tools"))

	fake = sysexec.NewFakeRunner()
	fake.FailOn["dpkg -s zram-tools"] = errors.New("package 'zram-tools' is not installed")
	require.False(t, IsInstalled(context.Background(), fake, "zram-tools"))
}

// TestInstall pins the install invocation.
func TestInstall(t *testing.T) {
	t.Parallel()

	fake := sysexec.NewFakeRunner()
	require.NoError(t, Install(context.Background(), fake, "zram-tools"))
	require.Equal(t, []string{"apt-get install -y zram-tools"}, fake.CommandLines())
}
