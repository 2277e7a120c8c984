// Package logmaint trims the host's log footprint: forced logrotate cycle,
// journald vacuum by retention age, and systemd-tmpfiles cleanup. All
// actions are best-effort and gated on tool presence.
package logmaint
