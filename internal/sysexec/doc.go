// Package sysexec wraps external command execution behind a Runner
// interface: the production ExecRunner streams output and prints the
// `+ command` narration, while FakeRunner records invocations for tests.
// Capability probes (LookPath) live here too, so steps consult tool
// presence once instead of shelling out to discover it.
package sysexec
