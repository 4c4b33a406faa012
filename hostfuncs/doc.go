// Package hostfuncs implements the host side of the pipeline plugin interface in
// pure Go: command execution, the job environment, platform detection and calls
// into other pipeline modules. Nothing here depends on a WASM runtime, so the same
// handlers back the native runner and the wazero executor.
package hostfuncs
