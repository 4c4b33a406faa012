package main

import (
	"fmt"
	"os"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/host"
	"github.com/spf13/cobra"
)

func newPluginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plugin <file.wasm> <job> [args...]",
		Short: "Run a job through a compiled pipeline plugin",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, job := args[0], entities.Job(args[1])
			if !job.Valid() {
				return fmt.Errorf("unknown job %q", job)
			}

			wasmBytes, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read plugin: %w", err)
			}

			ctx := cmd.Context()
			local := a.newLocal()
			registry, err := local.Registry()
			if err != nil {
				return err
			}
			executor, err := host.NewExecutor(ctx,
				host.WithHostFunctions(registry),
				host.WithLogger(a.logger),
				host.WithStdio(a.out, a.errOut),
			)
			if err != nil {
				return err
			}
			defer executor.Close(ctx)

			p, err := executor.LoadPlugin(ctx, wasmBytes)
			if err != nil {
				return err
			}

			a.logger.Info("running plugin job", "plugin", path, "job", job)
			cfg := a.jobConfig()
			res, err := p.RunRequest(ctx, job, entities.JobRequest{
				Config: &cfg,
				Args:   args[2:],
				DryRun: a.dryRun(),
			})
			if err != nil {
				return err
			}
			return a.report(nil, res)
		},
	}
}
