// Package ports defines the interfaces the pipeline needs from its host.
// Job logic depends only on these abstractions; the WASM guest adapters, the
// native host, and the test fakes implement them.
package ports
