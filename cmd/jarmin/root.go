// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"jarmin/internal/config"
	"jarmin/internal/minify"
	"jarmin/pkg/manifest"
	"jarmin/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// globalFlags are shared by every subcommand.
	globalFlags struct {
		verbose bool
		cfgFile string
	}

	// minifyFlags are the root command's own flags.
	minifyFlags struct {
		inputJar  string
		outputJar string
		lib       string
		mainClass string
		dryRun    bool
	}
)

// NewRootCommand builds the jarmin command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var (
		global globalFlags
		flags  minifyFlags
	)

	rootCmd := &cobra.Command{
		Use:   "jarmin",
		Short: "Minify a program JAR with R8",
		Long: TitleStyle.Render("jarmin") + SubtitleStyle.Render(" - Minify a program JAR with R8") + `

jarmin runs R8 in class-file mode on a JAR, keeping only what its
main class needs. The main class is read from the JAR manifest, or
given with --mainclass, in which case a copy of the JAR is
repackaged with a manifest naming it.

` + SubtitleStyle.Render("Examples:") + `
  jarmin                                  Minify build/libs/r8.jar into build/libs/r8-min.jar
  jarmin -m com.example.Tool              Minify into build/libs/Tool-min.jar
  jarmin -i app.jar -o app-min.jar        Minify app.jar using its manifest Main-Class
  jarmin --dry-run -m com.example.Tool    Show what would run
  jarmin inspect app.jar                  List entries and the manifest
  jarmin keep com.example.Tool            Print the keep rule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMinify(cmd, app, global, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&global.cfgFile, "config", "", "config file (default is ./jarmin.cue, then $XDG_CONFIG_HOME/jarmin/config.cue)")

	rootCmd.Flags().StringVarP(&flags.inputJar, "input-jar", "i", "", "program JAR to minify (default from config: build/libs/r8.jar)")
	rootCmd.Flags().StringVarP(&flags.outputJar, "output-jar", "o", "", "minified JAR (default <input>-min.jar, or build/libs/<Class>-min.jar with --mainclass)")
	rootCmd.Flags().StringVarP(&flags.lib, "lib", "l", "", "library JAR (default from config: the bundled OpenJDK 8 rt.jar)")
	rootCmd.Flags().StringVarP(&flags.mainClass, "mainclass", "m", "", "main class to keep; repackages the input with a manifest naming it")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the resolved plan without running the optimizer")

	rootCmd.AddCommand(newInspectCommand(app, &global))
	rootCmd.AddCommand(newKeepCommand(app, &global))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the resulting status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(int(exitStatus(err)))
	}
}

// exitStatus is the process status for an error returned by the command
// tree: the carried code of an ExitError, or ExitFailure.
func exitStatus(err error) types.ExitCode {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code.Validate() == nil {
		return exitErr.Code
	}
	return types.ExitFailure
}

// handleError prints errors that were not already reported by a command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// loadConfig loads configuration honoring --config and --verbose.
func loadConfig(ctx context.Context, app *App, global globalFlags) (*config.Config, bool, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: global.cfgFile})
	if err != nil {
		return nil, global.verbose, err
	}
	return cfg, global.verbose || cfg.UI.Verbose, nil
}

func runMinify(cmd *cobra.Command, app *App, global globalFlags, flags minifyFlags) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, verbose, err := loadConfig(cmd.Context(), app, global)
	if err != nil {
		return reportError(app.stderr, err, verbose)
	}

	svc := minify.NewService(app.Fs, app.NewRunner(cfg, app.stdout, app.stderr), cfg, newLogger(app.stderr, verbose))
	opts := minify.Options{
		Input:     flags.inputJar,
		Output:    flags.outputJar,
		Lib:       flags.lib,
		MainClass: manifest.MainClass(flags.mainClass),
	}

	if flags.dryRun {
		plan, err := svc.Plan(opts)
		if err != nil {
			return reportError(app.stderr, err, verbose)
		}
		renderPlan(app.stdout, cfg, plan)
		return nil
	}

	code, err := svc.Run(cmd.Context(), opts)
	if err != nil {
		return reportError(app.stderr, err, verbose)
	}
	if !code.IsSuccess() {
		return &ExitError{Code: code}
	}
	return nil
}
