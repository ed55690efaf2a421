// SPDX-License-Identifier: MPL-2.0

// Package minify runs one end-to-end minification: it prepares a JAR with a
// known entry point, writes the matching keep rule and hands both to the
// optimizer.
package minify

import (
	"context"
	"errors"

	"jarmin/internal/config"
	"jarmin/internal/entrypoint"
	"jarmin/internal/issue"
	"jarmin/internal/optimizer"
	"jarmin/internal/outpath"
	"jarmin/internal/workspace"
	"jarmin/pkg/jar"
	"jarmin/pkg/keeprule"
	"jarmin/pkg/manifest"
	"jarmin/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

const (
	// WorkspacePrefix prefixes the per-run temporary directory.
	WorkspacePrefix = "jarmin-"
	// RepackagedName is the repackaged input inside the workspace.
	RepackagedName = "input.jar"
	// KeepRulesName is the keep rule file inside the workspace.
	KeepRulesName = "keep.txt"
)

type (
	// Options are the per-run inputs. Empty fields fall back to configuration.
	Options struct {
		Input     string
		Output    string
		Lib       string
		MainClass manifest.MainClass
	}

	// Plan is a fully resolved run.
	Plan struct {
		// Input is the program JAR as given.
		Input string
		// Output is the optimized JAR.
		Output string
		// Lib is the library JAR.
		Lib string
		// Entry is the main class and where it came from.
		Entry entrypoint.Resolution
	}

	// Service runs minifications.
	Service struct {
		fs     afero.Fs
		runner optimizer.Runner
		config *config.Config
		logger *log.Logger
	}
)

// NewService creates a Service. A nil cfg uses the defaults.
func NewService(fs afero.Fs, runner optimizer.Runner, cfg *config.Config, logger *log.Logger) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Service{fs: fs, runner: runner, config: cfg, logger: logger}
}

// Plan resolves opts against the configuration and the input archive
// without writing anything.
func (s *Service) Plan(opts Options) (Plan, error) {
	if opts.MainClass != "" {
		if err := opts.MainClass.Validate(); err != nil {
			return Plan{}, issue.NewErrorContext().
				WithOperation("validate main class").
				WithResource(opts.MainClass.String()).
				WithIssue(issue.InvalidMainClassId).
				WithSuggestion("Pass a fully-qualified class name such as com.example.Tool").
				Wrap(err).
				BuildError()
		}
	}

	input := opts.Input
	if input == "" {
		input = s.config.InputJarPath()
	}
	lib := opts.Lib
	if lib == "" {
		lib = s.config.LibPath()
	}

	entry, err := entrypoint.Resolve(s.fs, opts.MainClass, input)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Input:  input,
		Output: outpath.Resolve(input, opts.Output, opts.MainClass, s.config.LibsDirPath()),
		Lib:    lib,
		Entry:  entry,
	}, nil
}

// Run executes a minification and returns the optimizer exit status.
// The error is non-nil only when the optimizer could not be reached.
func (s *Service) Run(ctx context.Context, opts Options) (types.ExitCode, error) {
	plan, err := s.Plan(opts)
	if err != nil {
		return types.ExitFailure, err
	}
	s.logger.Debug("resolved plan",
		"input", plan.Input,
		"output", plan.Output,
		"lib", plan.Lib,
		"mainclass", plan.Entry.MainClass,
		"source", plan.Entry.Source)

	ws, err := workspace.New(s.fs, WorkspacePrefix)
	if err != nil {
		return types.ExitFailure, outputError("create workspace", "", err)
	}
	defer func() {
		if closeErr := ws.Close(); closeErr != nil {
			s.logger.Warn("failed to clean up workspace", "dir", ws.Dir(), "error", closeErr)
		}
	}()
	s.logger.Debug("created workspace", "dir", ws.Dir())

	input, err := s.prepareInput(plan, ws)
	if err != nil {
		return types.ExitFailure, err
	}

	keep := ws.Path(KeepRulesName)
	if err := keeprule.WriteFile(s.fs, keep, plan.Entry.MainClass); err != nil {
		return types.ExitFailure, outputError("write keep rules", keep, err)
	}
	s.logger.Debug("wrote keep rules", "path", keep, "rule", keeprule.Generate(plan.Entry.MainClass))

	inv := optimizer.Invocation{
		Lib:       plan.Lib,
		Output:    plan.Output,
		KeepRules: keep,
		Input:     input,
	}
	s.logger.Debug("running optimizer", "args", inv.Args())

	code, err := s.runner.Run(ctx, inv)
	if err != nil {
		return code, issue.NewErrorContext().
			WithOperation("run optimizer").
			WithIssue(issue.OptimizerFailedId).
			WithSuggestion("Check that java and the optimizer JAR are available").
			Wrap(err).
			BuildError()
	}
	if !code.IsSuccess() {
		s.logger.Error("optimizer failed", "exit_code", code)
	}
	return code, nil
}

// prepareInput returns the archive handed to the optimizer, repackaging
// the input when its main class was supplied rather than discovered.
func (s *Service) prepareInput(plan Plan, ws *workspace.Workspace) (string, error) {
	if !plan.Entry.NeedsInjection() {
		return plan.Input, nil
	}

	dst := ws.Path(RepackagedName)
	s.logger.Infof("Repackaging %s to %s with Main-Class: %s...", plan.Input, dst, plan.Entry.MainClass)

	if err := jar.NewRepackager(s.fs).Repackage(plan.Input, dst, plan.Entry.MainClass); err != nil {
		if errors.Is(err, jar.ErrInvalidArchive) {
			return "", issue.NewErrorContext().
				WithOperation("repackage input").
				WithResource(plan.Input).
				WithIssue(issue.InvalidArchiveId).
				WithSuggestion("Check the --input-jar path").
				Wrap(err).
				BuildError()
		}
		return "", outputError("repackage input", dst, err)
	}
	return dst, nil
}

func outputError(op, resource string, err error) error {
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(resource).
		WithIssue(issue.OutputWriteFailedId).
		WithSuggestion("Check that the temporary directory is writable").
		Wrap(err).
		BuildError()
}
