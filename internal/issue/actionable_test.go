// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("zip: not a valid zip file")

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "write keep rules"}, "failed to write keep rules"},
		{"with resource", &ActionableError{Operation: "repackage archive", Resource: "app.jar"}, "failed to repackage archive: app.jar"},
		{"with cause", &ActionableError{Operation: "load config", Cause: cause}, "failed to load config: zip: not a valid zip file"},
		{
			name: "resource and cause",
			err:  &ActionableError{Operation: "repackage archive", Resource: "app.jar", Cause: cause},
			want: "failed to repackage archive: app.jar: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("no manifest")
	err := NewErrorContext().
		WithOperation("discover main class").
		Wrap(fmt.Errorf("reading app.jar: %w", sentinel)).
		BuildError()

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should reach the wrapped sentinel")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Operation != "discover main class" {
		t.Errorf("errors.As = %v", ae)
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	err := &ActionableError{
		Operation:   "discover main class",
		Resource:    "build/libs/r8.jar",
		Suggestions: []string{"Pass --mainclass", "Add a Main-Class attribute"},
		Cause:       fmt.Errorf("reading manifest: %w", errors.New("no Main-Class")),
	}

	quiet := err.Format(false)
	if !strings.HasPrefix(quiet, err.Error()) {
		t.Errorf("Format(false) should start with the message, got %q", quiet)
	}
	for _, want := range []string{"\n\n  • Pass --mainclass", "\n  • Add a Main-Class attribute"} {
		if !strings.Contains(quiet, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, quiet)
		}
	}
	if strings.Contains(quiet, "Error chain") {
		t.Error("the error chain is verbose-only")
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. reading manifest: no Main-Class", "2. no Main-Class"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}

	plain := &ActionableError{Operation: "write keep rules"}
	if got := plain.Format(true); got != "failed to write keep rules" {
		t.Errorf("Format(true) without cause or suggestions = %q", got)
	}
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	t.Run("requires operation", func(t *testing.T) {
		t.Parallel()
		ctx := NewErrorContext().WithResource("app.jar").WithSuggestion("unused")
		if ctx.Build() != nil {
			t.Error("Build() without operation should be nil")
		}
		if err := ctx.BuildError(); err != nil {
			t.Errorf("BuildError() should be a nil interface, got %#v", err)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("permission denied")
		ae := NewErrorContext().
			WithOperation("write output").
			WithResource("/out/app.jar").
			WithIssue(OutputWriteFailedId).
			WithSuggestion("Check permissions").
			WithSuggestions("Create the directory", "Pick another --output-jar").
			Wrap(cause).
			Build()

		if ae.Operation != "write output" || ae.Resource != "/out/app.jar" || ae.Issue != OutputWriteFailedId || ae.Cause != cause {
			t.Errorf("Build() = %+v", ae)
		}
		if len(ae.Suggestions) != 3 || ae.Suggestions[2] != "Pick another --output-jar" {
			t.Errorf("Suggestions = %q", ae.Suggestions)
		}
	})

	t.Run("reuse does not leak", func(t *testing.T) {
		t.Parallel()
		ctx := NewErrorContext().WithOperation("repackage archive").WithSuggestion("first")
		first := ctx.Build()
		ctx.WithSuggestion("second")
		second := ctx.Build()

		if len(first.Suggestions) != 1 {
			t.Errorf("first build changed after reuse: %q", first.Suggestions)
		}
		if len(second.Suggestions) != 2 {
			t.Errorf("second build = %q", second.Suggestions)
		}
	})
}
