// Package main hosts the callscribe CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the LLM client and stage services, and hands record files to the batch
// runner. Every batch command is recorded in the run history ledger.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
