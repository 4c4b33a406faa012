//go:build !wasip1

package plugin

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

// StubPlugin is a Plugin that succeeds without doing anything. Native builds
// and tests use it in place of a real pipeline.
type StubPlugin struct{}

// Run returns a success Result naming the job.
func (s *StubPlugin) Run(_ context.Context, job entities.Job, _ entities.JobRequest) entities.Result {
	return entities.ResultSuccess(job, "stub "+string(job)+" complete")
}

// Schema returns an empty object schema.
func (s *StubPlugin) Schema(context.Context) ([]byte, error) {
	return []byte(`{"type":"object"}`), nil
}
