// Package preflight provides readiness checks for the external tools,
// directories, and APIs the pipeline depends on.
//
// The CLI "distill doctor" command runs RunAll and renders one row per
// check. Individual check functions are exported so commands can verify
// just the piece they are about to use. Binary checks follow the
// configured whisper backend -- the local CLI and the split tool for API
// uploads are only required when the active backend invokes them.
package preflight
