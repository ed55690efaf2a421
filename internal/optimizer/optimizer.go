// SPDX-License-Identifier: MPL-2.0

// Package optimizer launches R8 in class-file mode.
//
// jarmin treats the optimizer as a black box: it builds the fixed argument
// list, runs the process with inherited output streams and reports the
// process exit status without interpreting it.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"jarmin/pkg/types"
)

// DefaultMainClass is the R8 command-line entry point.
const DefaultMainClass = "com.android.tools.r8.R8"

type (
	// Invocation describes a single optimizer run.
	Invocation struct {
		// Lib is the library JAR (a Java runtime) the program is compiled against.
		Lib string
		// Output is the path of the optimized JAR.
		Output string
		// KeepRules is the path of the keep rule file.
		KeepRules string
		// Input is the program JAR, possibly repackaged.
		Input string
	}

	// Runner runs an optimizer invocation.
	Runner interface {
		// Run returns the optimizer exit status. An error is returned only
		// when the process could not be run at all.
		Run(ctx context.Context, inv Invocation) (types.ExitCode, error)
	}

	// JavaRunner runs R8 from a JAR with a Java launcher.
	JavaRunner struct {
		// Java is the java launcher, looked up on PATH when not absolute.
		Java string
		// Classpath is the JAR containing the optimizer.
		Classpath string
		// MainClass is the optimizer entry point.
		MainClass string

		Stdout io.Writer
		Stderr io.Writer
	}
)

// Args returns the optimizer command-line arguments, input last.
func (inv Invocation) Args() []string {
	return []string{
		"--lib", inv.Lib,
		"--classfile",
		"--output", inv.Output,
		"--pg-conf", inv.KeepRules,
		"--release",
		inv.Input,
	}
}

// NewJavaRunner creates a JavaRunner writing to the process's stdout and stderr.
func NewJavaRunner(java, classpath, mainClass string) *JavaRunner {
	if mainClass == "" {
		mainClass = DefaultMainClass
	}
	return &JavaRunner{
		Java:      java,
		Classpath: classpath,
		MainClass: mainClass,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// CommandLine returns the full argv used for inv.
func (r *JavaRunner) CommandLine(inv Invocation) []string {
	argv := []string{r.Java, "-cp", r.Classpath, r.MainClass}
	return append(argv, inv.Args()...)
}

// Run executes the optimizer and waits for it to exit.
func (r *JavaRunner) Run(ctx context.Context, inv Invocation) (types.ExitCode, error) {
	argv := r.CommandLine(inv)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return types.ExitCodeOf(exitErr), nil
		}
		return types.ExitFailure, fmt.Errorf("failed to run %s: %w", r.Java, err)
	}

	return types.ExitSuccess, nil
}
