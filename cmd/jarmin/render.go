// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"jarmin/internal/config"
	"jarmin/internal/issue"
	"jarmin/internal/minify"
	"jarmin/internal/optimizer"
	"jarmin/pkg/keeprule"
	"jarmin/pkg/types"

	"github.com/charmbracelet/log"
)

// issueStyle is the glamour style used for catalog entries.
const issueStyle = "dark"

// workspacePlaceholder stands in for the per-run temporary directory,
// which only exists while the optimizer runs.
const workspacePlaceholder = "$WORKSPACE"

// reportError prints err with its suggestions and the matching issue
// catalog entry, then returns an ExitError so the command exits non-zero.
func reportError(stderr io.Writer, err error, verbose bool) error {
	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	renderIssue(stderr, issue.ForError(err))
	return &ExitError{Code: types.ExitFailure}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderIssue prints the rendered catalog entry, if any.
func renderIssue(w io.Writer, entry *issue.Issue) {
	if entry == nil {
		return
	}

	rendered, err := entry.Render(issueStyle)
	if err != nil {
		log.Warn("failed to render issue catalog entry", "issueID", entry.Id(), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// renderPlan prints a resolved run without executing it.
func renderPlan(w io.Writer, cfg *config.Config, plan minify.Plan) {
	input := plan.Input
	if plan.Entry.NeedsInjection() {
		input = workspacePlaceholder + "/" + minify.RepackagedName
	}
	inv := optimizer.Invocation{
		Lib:       plan.Lib,
		Output:    plan.Output,
		KeepRules: workspacePlaceholder + "/" + minify.KeepRulesName,
		Input:     input,
	}
	argv := optimizer.NewJavaRunner(cfg.Optimizer.Java, cfg.OptimizerJarPath(), cfg.Optimizer.MainClass).CommandLine(inv)

	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)
	printField(w, "Input:", plan.Input)
	printField(w, "Output:", plan.Output)
	printField(w, "Library:", plan.Lib)
	printField(w, "Main-Class:", HighlightStyle.Render(plan.Entry.MainClass.String())+" "+SubtitleStyle.Render("("+plan.Entry.Source.String()+")"))
	if plan.Entry.NeedsInjection() {
		printField(w, "Repackage:", plan.Input+" -> "+input)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelStyle.Render("  Keep rule:"))
	fmt.Fprintf(w, "    %s", keeprule.Generate(plan.Entry.MainClass))

	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelStyle.Render("  Command:"))
	fmt.Fprintf(w, "    %s\n", CmdStyle.Render(strings.Join(argv, " ")))
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render(label), value)
}
