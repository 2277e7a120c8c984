package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks range enforcement for retention and zram sizing.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Defaults are valid as-is.
	cfg := Default()
	require.NoError(t, Validate(cfg))

	// Retention below one day.
	cfg = Default()
	cfg.JournalRetentionDays = 0

	err := Validate(cfg)
	require.Error(t, err)

	// Zram percent out of range on both sides.
	cfg = Default()
	cfg.ZramSizePercent = 4
	require.Error(t, Validate(cfg))

	cfg.ZramSizePercent = 201
	require.Error(t, Validate(cfg))

	// Above 100 is allowed: compressed pages oversubscribe RAM.
	cfg.ZramSizePercent = 150
	require.NoError(t, Validate(cfg))

	// Blank settings path.
	cfg = Default()
	cfg.ZramConfigPath = ""
	require.Error(t, Validate(cfg))
}

// TestLoadLayering ensures env vars override the settings file,
// which overrides defaults.
func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("journal_retention_days: 7\nzram_size_percent: 25\n"), 0o600))

	t.Setenv("SYSMAINT_ZRAM_SIZE_PERCENT", "75")

	cfg, err := Load(settings, "")
	require.NoError(t, err)

	// File layer applied where env is silent.
	require.Equal(t, 7, cfg.JournalRetentionDays)
	// Env wins over the file.
	require.Equal(t, 75, cfg.ZramSizePercent)
	// Defaults survive where both layers are silent.
	require.Equal(t, DefaultZramConfigPath, cfg.ZramConfigPath)
	require.True(t, cfg.EnableZram)
}

// TestLoadEnvOnly confirms the environment alone fully configures the tool.
func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("SYSMAINT_ENABLE_ZRAM", "false")
	t.Setenv("SYSMAINT_JOURNAL_RETENTION_DAYS", "30")

	cfg, err := Load("", "")
	require.NoError(t, err)
	require.False(t, cfg.EnableZram)
	require.Equal(t, 30, cfg.JournalRetentionDays)
	require.Equal(t, DefaultZramSizePercent, cfg.ZramSizePercent)
}

// TestLoadEnvFile verifies dotenv loading and that a missing file is tolerated.
func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "sysmaint.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SYSMAINT_ZRAM_SIZE_PERCENT=80\n"), 0o600))

	// godotenv only sets variables that are not already present,
	// so clear any ambient value first.
	t.Setenv("SYSMAINT_ZRAM_SIZE_PERCENT", "")
	require.NoError(t, os.Unsetenv("SYSMAINT_ZRAM_SIZE_PERCENT"))

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	require.Equal(t, 80, cfg.ZramSizePercent)

	_, err = Load("", filepath.Join(dir, "does-not-exist.env"))
	require.NoError(t, err)
}

// TestLoadRejectsInvalid ensures validation errors surface through Load.
func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("SYSMAINT_ZRAM_SIZE_PERCENT", "500")

	_, err := Load("", "")
	require.Error(t, err)
}
