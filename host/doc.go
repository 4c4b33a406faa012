// Package host runs the pipeline outside the plugin.
//
// Local is a ports.Host backed by the hostfuncs handlers: commands run on this
// machine with an environment overlay that pipeline steps can extend. Executor
// loads a compiled plugin into wazero, exposes the same handlers to it as the
// pipeline_host import module, and calls its job exports.
package host
