// Package config builds the immutable run configuration for the maintenance
// pipeline. Values come from documented defaults, an optional yaml settings
// file, and SYSMAINT_* environment variables, in that order of precedence.
// The environment alone is sufficient to fully configure the tool.
package config
