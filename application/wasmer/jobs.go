package wasmer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	domainerrors "github.com/reglet-dev/wasmer-pipeline/domain/errors"
)

// Build installs both toolchains and builds the project for wasix.
// args is appended to the cargo command line; JobConfig.Args is used when it is empty.
func (s *Service) Build(ctx context.Context, args string) (string, error) {
	if err := s.SetupWasix(ctx); err != nil {
		return "", err
	}
	if err := s.SetupWasmer(ctx); err != nil {
		return "", err
	}

	chain := s.chain(string(entities.JobBuild)).
		WithExec("PATH=$HOME/.cargo/bin:$PATH", "cargo", "wasix", "build", "--release", s.args(args))
	return s.stdout(ctx, chain)
}

// Deploy installs the Wasmer CLI and deploys the project to Wasmer Edge.
// It fails before running anything when no token is available.
func (s *Service) Deploy(ctx context.Context, args string) (string, error) {
	if err := s.requireToken(ctx); err != nil {
		return "", err
	}
	if err := s.SetupWasmer(ctx); err != nil {
		return "", err
	}

	chain := s.chain(string(entities.JobDeploy)).
		WithExec("wasmer", "deploy", "--non-interactive", s.args(args))
	return s.stdout(ctx, chain)
}

func (s *Service) args(args string) string {
	if args != "" {
		return args
	}
	return s.config.job.Args
}

// requireToken exports a configured token and checks WASMER_TOKEN is set.
func (s *Service) requireToken(ctx context.Context) error {
	if token := s.config.job.Token; token != "" {
		if s.config.dryRun {
			s.plan.WriteString("export " + entities.EnvWasmerToken + "=***\n")
			return nil
		}
		if err := s.host.SetEnvs(ctx, []entities.EnvVar{{Name: entities.EnvWasmerToken, Value: token}}); err != nil {
			return &domainerrors.TokenError{Err: err}
		}
		return nil
	}

	token, err := s.env(ctx, entities.EnvWasmerToken)
	if err != nil {
		return &domainerrors.TokenError{Err: err}
	}
	if token == "" {
		return &domainerrors.TokenError{Err: domainerrors.ErrMissingToken}
	}
	return nil
}

// Execute runs a single job and reports the outcome as a Result.
// A panic inside the job is reported as an error result.
func (s *Service) Execute(ctx context.Context, job entities.Job, args string) (result entities.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "wasmer: job panicked", "job", job, "panic", r, "stack", string(debug.Stack()))
			result = entities.ResultError(job, entities.NewErrorDetail("panic", fmt.Sprintf("%v", r))).
				WithDuration(time.Since(start))
		}
	}()

	var (
		out string
		err error
	)
	switch job {
	case entities.JobSetup:
		out, err = s.Setup(ctx)
	case entities.JobBuild:
		out, err = s.Build(ctx, args)
	case entities.JobDeploy:
		out, err = s.Deploy(ctx, args)
	default:
		err = &domainerrors.JobNotFoundError{Name: string(job)}
	}

	elapsed := time.Since(start)
	if err != nil {
		slog.ErrorContext(ctx, "wasmer: job failed", "job", job, "error", err, "duration", elapsed)
		if domainerrors.IsCommandFailure(err) {
			return entities.ResultFailure(job, domainerrors.ToErrorDetail(err)).WithDuration(elapsed)
		}
		return entities.ResultError(job, domainerrors.ToErrorDetail(err)).WithDuration(elapsed)
	}

	slog.InfoContext(ctx, "wasmer: job complete", "job", job, "duration", elapsed)
	return entities.ResultSuccess(job, out).WithDuration(elapsed)
}

// Run executes the named jobs in order and stops at the first one that does not succeed.
// With no names it runs the default job. An unknown name fails when it is reached.
func (s *Service) Run(ctx context.Context, names ...string) ([]entities.Result, error) {
	if len(names) == 0 {
		names = []string{string(entities.DefaultJob)}
	}

	results := make([]entities.Result, 0, len(names))
	for _, name := range names {
		job := entities.Job(name)
		if !job.Valid() {
			return results, &domainerrors.JobNotFoundError{Name: name}
		}
		res := s.Execute(ctx, job, "")
		results = append(results, res)
		if err := res.Err(); err != nil {
			return results, err
		}
	}
	return results, nil
}

// JobInfo describes a runnable job.
type JobInfo struct {
	Name        entities.Job `json:"name"`
	Description string       `json:"description"`
}

// Describe lists every job with its description.
func Describe() []JobInfo {
	jobs := entities.Jobs()
	infos := make([]JobInfo, 0, len(jobs))
	for _, j := range jobs {
		infos = append(infos, JobInfo{Name: j, Description: j.Description()})
	}
	return infos
}
