// Package maintenance orchestrates the host maintenance pipeline: a fixed,
// strictly sequential list of steps from preflight checks through the final
// status report. Each step returns a tagged result (ok, skipped, tolerated,
// fatal); the first fatal result aborts the run with the prior steps'
// effects left in place, and re-invocation is safe because every step's
// action is repeat-safe.
package maintenance
