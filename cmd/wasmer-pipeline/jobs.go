package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/reglet-dev/wasmer-pipeline/application/schema"
	"github.com/reglet-dev/wasmer-pipeline/application/wasmer"
	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/spf13/cobra"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: entities.JobSetup.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJob(cmd, a, entities.JobSetup, a.jobConfig(), nil)
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build [-- cargo args...]",
		Short: entities.JobBuild.Description(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, a, entities.JobBuild, a.jobConfig(), args)
		},
	}
}

func newDeployCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [-- wasmer args...]",
		Short: entities.JobDeploy.Description(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.jobConfig()
			if cfg.Token == "" && !a.dryRun() && a.prompter.IsInteractive() {
				token, err := a.prompter.PromptForValue("Wasmer token")
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				cfg.Token = token
			}
			return runJob(cmd, a, entities.JobDeploy, cfg, args)
		},
	}
	cmd.Flags().String("token", "", "Wasmer Edge token (overrides WASMER_TOKEN)")
	_ = a.v.BindPFlag(keyToken, cmd.Flags().Lookup("token"))
	return cmd
}

func runJob(cmd *cobra.Command, a *app, job entities.Job, cfg entities.JobConfig, args []string) error {
	svc, err := a.service(cfg)
	if err != nil {
		return err
	}
	res := svc.Execute(cmd.Context(), job, strings.Join(args, " "))
	return a.report(svc, res)
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [jobs...]",
		Short: "Run jobs in order, stopping at the first failure (default: " + string(entities.DefaultJob) + ")",
		RunE: func(cmd *cobra.Command, names []string) error {
			svc, err := a.service(a.jobConfig())
			if err != nil {
				return err
			}

			results, runErr := svc.Run(cmd.Context(), names...)
			for _, res := range results {
				if res.Output != "" {
					_, _ = fmt.Fprintln(a.out, res.Output)
				}
			}
			if svc.DryRun() {
				_, _ = fmt.Fprint(a.out, svc.Plan())
			}
			if err := renderResults(a.out, results); err != nil {
				return err
			}
			return runErr
		},
	}
}

func renderResults(w io.Writer, results []entities.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Job", "Status", "Duration")
	for _, res := range results {
		_ = table.Append([]string{string(res.Job), string(res.Status), res.Duration.Round(time.Millisecond).String()})
	}
	return table.Render()
}

func newJobsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List the available jobs",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			table := tablewriter.NewWriter(a.out)
			table.Header("Job", "Description", "Default")
			for _, info := range wasmer.Describe() {
				def := ""
				if info.Name == entities.DefaultJob {
					def = "yes"
				}
				_ = table.Append([]string{string(info.Name), info.Description, def})
			}
			return table.Render()
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the job configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			data, err := schema.JobConfigSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, string(data))
			return err
		},
	}
}
