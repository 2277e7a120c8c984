// Package apt wraps the Debian package manager operations the maintenance
// pipeline performs: transaction repair, index refresh, non-interactive
// upgrade, cache cleanup, and package install/presence checks. Every call
// runs with DEBIAN_FRONTEND=noninteractive and automatic service restarts.
package apt
