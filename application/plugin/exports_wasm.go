//go:build wasip1

package plugin

import (
	"log/slog"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/internal/abi"
)

//go:wasmexport setup
func _setup(ptr uint32, length uint32) uint64 {
	return handleJobCall(entities.JobSetup, ptr, length)
}

//go:wasmexport build
func _build(ptr uint32, length uint32) uint64 {
	return handleJobCall(entities.JobBuild, ptr, length)
}

//go:wasmexport deploy
func _deploy(ptr uint32, length uint32) uint64 {
	return handleJobCall(entities.JobDeploy, ptr, length)
}

//go:wasmexport schema
func _schema() uint64 {
	return abi.PtrFromBytes(schemaOf(registered()))
}

// handleJobCall reads the request from plugin memory, dispatches the job
// and returns the packed Result.
func handleJobCall(job entities.Job, ptr, length uint32) uint64 {
	var input []byte
	if length > 0 {
		input = abi.BytesFromPtr(abi.PackPtrLen(ptr, length))
	}

	result := Dispatch(registered(), job, input)
	if result.Error != nil && result.Error.Type == "panic" {
		abi.FreeAllTracked()
		slog.Error("plugin: freed tracked memory after panic", "job", job)
	}
	return abi.PtrFromBytes(encodeResult(result))
}
