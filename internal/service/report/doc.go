// Package report renders the end-of-run system health summary: host and
// kernel identification, root filesystem usage, memory and swap figures,
// failed service units, and the pending-reboot notice. The report is
// informational output, not a stored metric, and never fails the run.
package report
