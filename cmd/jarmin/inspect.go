// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"jarmin/internal/entrypoint"
	"jarmin/internal/issue"
	"jarmin/pkg/jar"
	"jarmin/pkg/manifest"

	"github.com/spf13/cobra"
)

const (
	inspectOkIcon   = "✓"
	inspectWarnIcon = "!"
)

func newInspectCommand(app *App, global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <jar>",
		Short: "List the entries and manifest of a JAR",
		Long: `List every entry of a JAR in stored order together with its compression
method and size, decode the manifest main section and report the
Main-Class jarmin would discover.

A JAR without a manifest or Main-Class is not an error here; the reason
is shown in place of the main class.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			if err := runInspect(app.stdout, app, args[0]); err != nil {
				return reportError(app.stderr, err, global.verbose)
			}
			return nil
		},
	}
}

func runInspect(w io.Writer, app *App, path string) error {
	entries, err := jar.Entries(app.Fs, path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("inspect archive").
			WithResource(path).
			WithIssue(issue.InvalidArchiveId).
			WithSuggestion("Check that the path names a JAR file").
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(w, TitleStyle.Render("Archive")+" "+path)
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelStyle.Render(fmt.Sprintf("  Entries (%d):", len(entries))))
	for _, e := range entries {
		name := e.Name
		if e.IsManifest() {
			name = HighlightStyle.Render(name)
		}
		fmt.Fprintf(w, "    %s %s %s\n",
			VerboseStyle.Render(fmt.Sprintf("%-8s", e.MethodName())),
			VerboseStyle.Render(fmt.Sprintf("%10d", e.UncompressedSize)),
			name)
	}

	fmt.Fprintln(w)
	renderManifest(w, app, path)

	fmt.Fprintln(w)
	res, err := entrypoint.Resolve(app.Fs, "", path)
	if err != nil {
		fmt.Fprintf(w, "  %s %s %s\n", LabelStyle.Render("Main-Class:"), WarningStyle.Render(inspectWarnIcon), formatErrorForDisplay(err, false))
		return nil
	}
	fmt.Fprintf(w, "  %s %s %s\n", LabelStyle.Render("Main-Class:"), SuccessStyle.Render(inspectOkIcon), HighlightStyle.Render(res.MainClass.String()))
	return nil
}

// renderManifest prints the manifest main section attributes.
func renderManifest(w io.Writer, app *App, path string) {
	fmt.Fprintln(w, LabelStyle.Render("  Manifest:"))

	data, err := jar.ReadManifest(app.Fs, path)
	if errors.Is(err, jar.ErrMissingManifest) {
		fmt.Fprintf(w, "    %s\n", SubtitleStyle.Render("(none)"))
		return
	}
	if err != nil {
		fmt.Fprintf(w, "    %s %v\n", WarningStyle.Render(inspectWarnIcon), err)
		return
	}

	m, err := manifest.Parse(data)
	if err != nil {
		fmt.Fprintf(w, "    %s malformed manifest: %v\n", WarningStyle.Render(inspectWarnIcon), err)
		return
	}
	if len(m.Attributes) == 0 {
		fmt.Fprintf(w, "    %s\n", SubtitleStyle.Render("(empty)"))
		return
	}
	for _, attr := range m.Attributes {
		fmt.Fprintf(w, "    %s %s\n", VerboseStyle.Render(attr.Key+":"), attr.Value)
	}
}
