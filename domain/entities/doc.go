// Package entities defines the domain types shared by the wasmer pipeline plugin and its hosts.
// These types double as the JSON wire format exchanged across the WASM boundary.
package entities
