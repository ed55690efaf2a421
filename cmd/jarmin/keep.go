// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"jarmin/internal/issue"
	"jarmin/pkg/keeprule"
	"jarmin/pkg/manifest"

	"github.com/spf13/cobra"
)

func newKeepCommand(app *App, global *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "keep <mainclass>",
		Short: "Print the keep rule for a main class",
		Long: `Print the R8 keep rule that preserves the public static main method
of a class, exactly as jarmin passes it to the optimizer.`,
		Example: `  jarmin keep com.android.tools.r8.R8
  jarmin keep com.example.Tool -o keep.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			mc := manifest.MainClass(args[0])
			if err := mc.Validate(); err != nil {
				return reportError(app.stderr, issue.NewErrorContext().
					WithOperation("generate keep rule").
					WithResource(args[0]).
					WithIssue(issue.InvalidMainClassId).
					WithSuggestion("Pass a fully-qualified class name such as com.example.Tool").
					Wrap(err).
					BuildError(), global.verbose)
			}

			if output == "" {
				fmt.Fprint(app.stdout, keeprule.Generate(mc))
				return nil
			}

			if err := keeprule.WriteFile(app.Fs, output, mc); err != nil {
				return reportError(app.stderr, issue.NewErrorContext().
					WithOperation("write keep rules").
					WithResource(output).
					WithIssue(issue.OutputWriteFailedId).
					WithSuggestion("Check that the directory exists and is writable").
					Wrap(err).
					BuildError(), global.verbose)
			}
			fmt.Fprintf(app.stderr, "%s wrote %s\n", SuccessStyle.Render(inspectOkIcon), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the rule to this file instead of stdout")
	return cmd
}
