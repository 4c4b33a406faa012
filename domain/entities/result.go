package entities

import (
	"time"
)

// ResultStatus represents the outcome status of a job.
type ResultStatus string

const (
	// ResultStatusSuccess indicates the job completed successfully.
	ResultStatusSuccess ResultStatus = "success"

	// ResultStatusFailure indicates the job ran but a command failed.
	ResultStatusFailure ResultStatus = "failure"

	// ResultStatusError indicates the job could not run (bad config, unsupported platform, panic).
	ResultStatusError ResultStatus = "error"
)

// Result is returned by every plugin entry point.
type Result struct {
	// Timestamp is when this result was created.
	Timestamp time.Time `json:"timestamp"`

	// Error contains structured error information if Status is not success.
	Error *ErrorDetail `json:"error,omitempty"`

	// Job is the entry point that produced the result.
	Job Job `json:"job,omitempty"`

	// Status indicates whether the job succeeded, failed, or errored.
	Status ResultStatus `json:"status"`

	// Output is the job's stdout, or a short completion message.
	Output string `json:"output,omitempty"`

	// Plan lists the commands a dry run recorded instead of running.
	Plan string `json:"plan,omitempty"`

	// Duration is how long the job ran.
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// ResultSuccess creates a successful Result for a job.
func ResultSuccess(job Job, output string) Result {
	return Result{
		Job:       job,
		Status:    ResultStatusSuccess,
		Output:    output,
		Timestamp: time.Now(),
	}
}

// ResultFailure creates a failure Result. Use it when a command ran and exited non-zero.
func ResultFailure(job Job, err *ErrorDetail) Result {
	return Result{
		Job:       job,
		Status:    ResultStatusFailure,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// ResultError creates an error Result. Use it when the job could not run at all.
func ResultError(job Job, err *ErrorDetail) Result {
	return Result{
		Job:       job,
		Status:    ResultStatusError,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// WithDuration returns a copy of the Result with the run duration attached.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// IsSuccess returns true if the result indicates success.
func (r Result) IsSuccess() bool {
	return r.Status == ResultStatusSuccess
}

// Err returns the result's error, or nil on success.
func (r Result) Err() error {
	if r.Status == ResultStatusSuccess {
		return nil
	}
	if r.Error == nil {
		return NewErrorDetail("internal", "job "+string(r.Job)+" finished with status "+string(r.Status))
	}
	return r.Error
}
