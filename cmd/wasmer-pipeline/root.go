package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wasmer-pipeline",
		Short: "Build and deploy WASIX applications to Wasmer Edge",
		Long: `wasmer-pipeline installs the WASIX Rust toolchain and the Wasmer CLI,
builds the project with cargo wasix, and deploys it with wasmer deploy.

Jobs:

  setup    Install cargo-wasix, the wasix toolchain and the Wasmer CLI
  build    Build the project with cargo wasix build --release
  deploy   Deploy the project with wasmer deploy (needs WASMER_TOKEN)

Examples:

  wasmer-pipeline run
  wasmer-pipeline build -- --features web
  wasmer-pipeline deploy --dry-run
  wasmer-pipeline workflow -o .github/workflows/deploy.yml`,
		SilenceUsage:      true,
		PersistentPreRunE: a.prepare,
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("dry-run", false, "print the commands instead of running them")
	flags.Bool("stream", false, "stream command output to stderr while it runs")
	flags.String("dir", "", "project directory commands run in")
	flags.Duration("timeout", 0, "per-command timeout (default 30m)")
	flags.String("cargo-wasix-version", "", "cargo-wasix release tag (overrides CARGO_WASIX_VERSION)")

	for key, flag := range map[string]string{
		keyLogLevel:          "log-level",
		keyDryRun:            "dry-run",
		keyStream:            "stream",
		keyDir:               "dir",
		keyTimeout:           "timeout",
		keyCargoWasixVersion: "cargo-wasix-version",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newSetupCmd(a),
		newBuildCmd(a),
		newDeployCmd(a),
		newRunCmd(a),
		newJobsCmd(a),
		newSchemaCmd(a),
		newWorkflowCmd(a),
		newPluginCmd(a),
	)
	return root
}
