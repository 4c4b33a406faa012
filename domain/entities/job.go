package entities

import "slices"

// Job names a pipeline entry point.
type Job string

const (
	JobSetup  Job = "setup"
	JobBuild  Job = "build"
	JobDeploy Job = "deploy"
)

// DefaultJob runs when no job is requested explicitly.
const DefaultJob = JobDeploy

var jobDescriptions = map[Job]string{
	JobSetup:  "Install the WASIX toolchain and the Wasmer CLI",
	JobBuild:  "Build the project (wasix)",
	JobDeploy: "Deploy to Wasmer Edge",
}

// Jobs returns every known job in execution order.
func Jobs() []Job {
	return []Job{JobSetup, JobBuild, JobDeploy}
}

// Description returns the human-readable description of the job.
func (j Job) Description() string {
	return jobDescriptions[j]
}

// Valid reports whether j names a known job.
func (j Job) Valid() bool {
	return slices.Contains(Jobs(), j)
}
