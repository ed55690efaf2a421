// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"jarmin/internal/config"
	"jarmin/internal/optimizer"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

type (
	// RunnerFactory builds the optimizer runner for a loaded configuration.
	RunnerFactory func(cfg *config.Config, stdout, stderr io.Writer) optimizer.Runner

	// App wires CLI services and shared dependencies. All command handlers
	// receive an App reference instead of reaching for globals.
	App struct {
		Config    config.Provider
		Fs        afero.Fs
		NewRunner RunnerFactory
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config    config.Provider
		Fs        afero.Fs
		NewRunner RunnerFactory
		Stdout    io.Writer
		Stderr    io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.NewRunner == nil {
		deps.NewRunner = javaRunner
	}

	return &App{
		Config:    deps.Config,
		Fs:        deps.Fs,
		NewRunner: deps.NewRunner,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

// javaRunner is the production RunnerFactory.
func javaRunner(cfg *config.Config, stdout, stderr io.Writer) optimizer.Runner {
	r := optimizer.NewJavaRunner(cfg.Optimizer.Java, cfg.OptimizerJarPath(), cfg.Optimizer.MainClass)
	r.Stdout = stdout
	r.Stderr = stderr
	return r
}

// newLogger returns the run logger. Verbose runs log at debug level.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "jarmin",
		Level:  level,
	})
}
