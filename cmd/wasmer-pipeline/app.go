package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/reglet-dev/wasmer-pipeline/application/wasmer"
	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
	"github.com/reglet-dev/wasmer-pipeline/host"
	"github.com/reglet-dev/wasmer-pipeline/infrastructure/prompter"
	pipelinelog "github.com/reglet-dev/wasmer-pipeline/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys. Flags, environment variables and the config file all
// resolve through these.
const (
	keyLogLevel          = "log_level"
	keyDryRun            = "dry_run"
	keyStream            = "stream"
	keyToken             = "token"
	keyCargoWasixVersion = "cargo_wasix_version"
	keyDir               = "dir"
	keyArgs              = "args"
	keyTimeout           = "timeout"
)

// envBindings maps configuration keys to the environment variables read for them.
var envBindings = map[string]string{
	keyToken:             entities.EnvWasmerToken,
	keyCargoWasixVersion: entities.EnvCargoWasixVersion,
	keyLogLevel:          "WASMER_PIPELINE_LOG_LEVEL",
}

// app carries the state shared by every command.
type app struct {
	v        *viper.Viper
	prompter *prompter.CliPrompter
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	logger   *slog.Logger
	cfgFile  string

	hostOnce sync.Once
	host     ports.Host
	newHost  func(*app) ports.Host
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	v := viper.New()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return &app{
		v:        v,
		prompter: prompter.NewCliPrompter(in, errOut),
		in:       in,
		out:      out,
		errOut:   errOut,
		logger:   slog.New(slog.NewTextHandler(errOut, nil)),
		newHost:  localHost,
	}
}

// localHost runs commands on this machine, streaming their output when asked.
func localHost(a *app) ports.Host {
	return a.newLocal()
}

// newLocal builds a native host, teeing command output to stderr with --stream.
func (a *app) newLocal() *host.Local {
	var opts []host.LocalOption
	if a.v.GetBool(keyStream) {
		opts = append(opts, host.WithOutput(a.errOut))
	}
	return host.NewLocal(opts...)
}

// prepare reads the config file and sets up logging. It runs before every command.
func (a *app) prepare(*cobra.Command, []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", a.cfgFile, err)
		}
	}

	level, err := pipelinelog.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) getHost() ports.Host {
	a.hostOnce.Do(func() {
		a.host = a.newHost(a)
	})
	return a.host
}

func (a *app) dryRun() bool {
	return a.v.GetBool(keyDryRun)
}

func (a *app) jobConfig() entities.JobConfig {
	return entities.NewJobConfig(
		entities.WithArgs(a.v.GetString(keyArgs)),
		entities.WithCargoWasixVersion(a.v.GetString(keyCargoWasixVersion)),
		entities.WithDir(a.v.GetString(keyDir)),
		entities.WithToken(a.v.GetString(keyToken)),
		entities.WithTimeout(a.v.GetDuration(keyTimeout)),
	)
}

func (a *app) service(cfg entities.JobConfig) (*wasmer.Service, error) {
	return wasmer.NewService(a.getHost(),
		wasmer.WithJobConfig(cfg),
		wasmer.WithDryRun(a.dryRun()),
	)
}

// report prints a job result. Non-successful results become the command error.
func (a *app) report(svc *wasmer.Service, res entities.Result) error {
	if res.Output != "" {
		_, _ = fmt.Fprintln(a.out, res.Output)
	}
	plan := res.Plan
	if plan == "" && svc != nil && svc.DryRun() {
		plan = svc.Plan()
	}
	if plan != "" {
		_, _ = fmt.Fprint(a.out, plan)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("%s %s: %w", res.Job, res.Status, err)
	}
	a.logger.Info("job finished", "job", res.Job, "status", res.Status, "duration", res.Duration)
	return nil
}
