package main

import (
	"fmt"

	"github.com/reglet-dev/wasmer-pipeline/application/workflow"
	"github.com/reglet-dev/wasmer-pipeline/infrastructure/workflowstore"
	"github.com/spf13/cobra"
)

func newWorkflowCmd(a *app) *cobra.Command {
	var (
		output   string
		force    bool
		stdout   bool
		name     string
		branches []string
		runner   string
	)

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Generate the GitHub Actions workflow that runs the pipeline",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			w := workflow.Generate(
				workflow.WithName(name),
				workflow.WithBranches(branches...),
				workflow.WithRunner(runner),
			)

			if stdout {
				data, err := workflow.Marshal(w)
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			}

			store := workflowstore.NewFileStore(workflowstore.WithPath(output))
			if store.Exists() && !force {
				if !a.prompter.IsInteractive() {
					return a.prompter.NonInteractiveError("overwriting "+store.Path(), "--force")
				}
				ok, err := a.prompter.Confirm(fmt.Sprintf("%s exists. Overwrite?", store.Path()))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(a.out, "Aborted")
					return nil
				}
			}

			if err := store.Save(w); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, "Wrote %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", workflow.DefaultFileName, "workflow file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file without asking")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the workflow instead of writing it")
	cmd.Flags().StringVar(&name, "name", workflow.DefaultName, "workflow name")
	cmd.Flags().StringSliceVar(&branches, "branch", []string{workflow.DefaultBranch}, "branches that trigger the workflow")
	cmd.Flags().StringVar(&runner, "runner", workflow.DefaultRunner, "runs-on label")
	return cmd
}
