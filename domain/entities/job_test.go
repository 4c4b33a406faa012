package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJob_Valid(t *testing.T) {
	for _, j := range Jobs() {
		assert.True(t, j.Valid(), j)
		assert.NotEmpty(t, j.Description(), j)
	}
	assert.False(t, Job("publish").Valid())
	assert.Empty(t, Job("publish").Description())
	assert.Equal(t, JobDeploy, DefaultJob)
}

func TestNewJobConfig(t *testing.T) {
	cfg := NewJobConfig()
	assert.Equal(t, DefaultCommandTimeout, cfg.Timeout)
	assert.Empty(t, cfg.Args)

	cfg = NewJobConfig(
		WithArgs("--features web"),
		WithCargoWasixVersion("v0.1.22"),
		WithDir("/src"),
		WithToken("secret"),
		WithTimeout(time.Minute),
	)
	assert.Equal(t, "--features web", cfg.Args)
	assert.Equal(t, "v0.1.22", cfg.CargoWasixVersion)
	assert.Equal(t, "/src", cfg.Dir)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestWithTimeout_IgnoresInvalid(t *testing.T) {
	cfg := NewJobConfig(WithTimeout(0), WithTimeout(-time.Second))
	assert.Equal(t, DefaultCommandTimeout, cfg.Timeout)
}

func TestResult(t *testing.T) {
	ok := ResultSuccess(JobSetup, "Setup complete")
	assert.True(t, ok.IsSuccess())
	assert.NoError(t, ok.Err())
	assert.False(t, ok.Timestamp.IsZero())

	failed := ResultFailure(JobBuild, NewErrorDetail("exec", "cargo failed").WithCode("exit_101"))
	assert.False(t, failed.IsSuccess())
	assert.EqualError(t, failed.Err(), "exec: cargo failed [exit_101]")

	bare := Result{Job: JobDeploy, Status: ResultStatusError}
	assert.EqualError(t, bare.Err(), "job deploy finished with status error")

	assert.Equal(t, time.Second, ok.WithDuration(time.Second).Duration)
}

func TestErrorDetail_Error(t *testing.T) {
	var nilErr *ErrorDetail
	assert.Equal(t, "", nilErr.Error())

	inner := NewErrorDetail("internal", "boom")
	outer := &ErrorDetail{Type: "platform", Message: "setup failed", Wrapped: inner}
	assert.Equal(t, "platform: setup failed: boom", outer.Error())
}
