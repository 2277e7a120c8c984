// Package step defines the result taxonomy for maintenance pipeline steps:
// ok, skipped, tolerated failure, fatal failure. Steps return a Result and
// the orchestrator decides whether the run continues.
package step
