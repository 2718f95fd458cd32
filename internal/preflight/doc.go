// Package preflight provides readiness checks for the directories, catalog
// and LLM endpoint that callscribe depends on.
//
// The "callscribe preflight" command runs RunAll before an operator starts a
// long batch, so a bad catalog path or an unreachable endpoint surfaces in
// seconds rather than after the first thousand rows.
package preflight
