//go:build wasip1

// Package wasm implements the pipeline ports on top of the pipeline_host
// import module. Every import takes a packed JSON request and returns a
// packed JSON response allocated in plugin memory.
package wasm

//go:wasmimport pipeline_host exec_command
func host_exec_command(requestPacked uint64) uint64

//go:wasmimport pipeline_host get_env
func host_get_env(requestPacked uint64) uint64

//go:wasmimport pipeline_host set_envs
func host_set_envs(requestPacked uint64) uint64

//go:wasmimport pipeline_host get_platform
func host_get_platform(requestPacked uint64) uint64

//go:wasmimport pipeline_host call_module
func host_call_module(requestPacked uint64) uint64
