package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables for a maintenance run. It is built once at
// startup and passed into the pipeline; steps never re-read the environment.
type Config struct {
	// JournalRetentionDays is the age threshold for pruning journald entries.
	JournalRetentionDays int `envconfig:"JOURNAL_RETENTION_DAYS" yaml:"journal_retention_days"`
	// EnableZram gates the swap augmentation step.
	EnableZram bool `envconfig:"ENABLE_ZRAM" yaml:"enable_zram"`
	// ZramSizePercent sizes the zram device as a percentage of physical RAM.
	// Values above 100 are legal: compressed pages fit several times their
	// size in RAM.
	ZramSizePercent int `envconfig:"ZRAM_SIZE_PERCENT" yaml:"zram_size_percent"`
	// ZramConfigPath is where the zramswap settings file is created if absent.
	ZramConfigPath string `envconfig:"ZRAM_CONFIG_PATH" yaml:"zram_config_path"`
	// LogLevel is the zap log level name for diagnostics on stderr.
	LogLevel string `envconfig:"LOG_LEVEL" yaml:"log_level"`
}

const (
	// EnvPrefix namespaces all environment variables read by the tool.
	EnvPrefix = "SYSMAINT"

	// DefaultJournalRetentionDays keeps two weeks of journald history.
	DefaultJournalRetentionDays = 14

	// DefaultZramSizePercent sizes the zram device at half of physical RAM.
	DefaultZramSizePercent = 50

	// DefaultZramConfigPath is the stock zram-tools settings location on Debian.
	DefaultZramConfigPath = "/etc/default/zramswap"

	// DefaultLogLevel is the diagnostics verbosity when none is configured.
	DefaultLogLevel = "info"

	// minZramSizePercent rejects devices too small to matter.
	minZramSizePercent = 5
	// maxZramSizePercent caps sizing at twice physical RAM.
	maxZramSizePercent = 200
)

var (
	// errRetentionTooShort is returned when journal retention is below one day.
	errRetentionTooShort = errors.New("journal retention must be at least 1 day")
	// errZramPercentOutOfRange is returned when zram sizing leaves the accepted window.
	errZramPercentOutOfRange = fmt.Errorf(
		"zram size percent must be between %d and %d", minZramSizePercent, maxZramSizePercent)
	// errZramConfigPathRequired is returned when the settings file path is blanked out.
	errZramConfigPathRequired = errors.New("zram config path must be provided")
)

// Default returns a Config populated with the documented defaults.
func Default() *Config {
	return &Config{
		JournalRetentionDays: DefaultJournalRetentionDays,
		EnableZram:           true,
		ZramSizePercent:      DefaultZramSizePercent,
		ZramConfigPath:       DefaultZramConfigPath,
		LogLevel:             DefaultLogLevel,
	}
}

// Load builds the run configuration in three layers, later layers winning:
// documented defaults, an optional yaml settings file, and SYSMAINT_*
// environment variables. envFile, when non-empty, is loaded into the process
// environment first (missing file is not an error, matching dotenv
// conventions).
func Load(settingsPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := Default()

	if settingsPath != "" {
		contents, err := os.ReadFile(filepath.Clean(settingsPath))
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}

		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	// Environment is authoritative; fields without a matching variable keep
	// their layered value because no `default` tags are declared.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the provided configuration for usable values.
func Validate(cfg *Config) error {
	if cfg.JournalRetentionDays < 1 {
		return errRetentionTooShort
	}

	if cfg.ZramSizePercent < minZramSizePercent || cfg.ZramSizePercent > maxZramSizePercent {
		return errZramPercentOutOfRange
	}

	if cfg.ZramConfigPath == "" {
		return errZramConfigPathRequired
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}
