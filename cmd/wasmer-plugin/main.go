//go:build wasip1

// Command wasmer-plugin is the pipeline compiled as a WASM reactor:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o wasmer_pipeline.wasm ./cmd/wasmer-plugin
//
// The host calls its setup, build, deploy and schema exports and provides the
// pipeline_host imports.
package main

import (
	"github.com/reglet-dev/wasmer-pipeline/application/plugin"
	"github.com/reglet-dev/wasmer-pipeline/infrastructure/wasm"
	pipelinelog "github.com/reglet-dev/wasmer-pipeline/log"
)

func init() {
	pipelinelog.Install()

	plugin.Register(plugin.NewServicePlugin(wasm.NewHostAdapter()))
}

func main() {
	// main is not called in -buildmode=c-shared
}
