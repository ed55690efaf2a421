// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jarmin/internal/issue"
	"jarmin/internal/testutil"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.RepoRoot != "." {
		t.Errorf("expected default repo root to be ., got %s", cfg.RepoRoot)
	}
	if cfg.InputJarPath() != filepath.Join("build", "libs", "r8.jar") {
		t.Errorf("unexpected default input jar %s", cfg.InputJarPath())
	}
	if cfg.LibPath() != filepath.Join("third_party", "openjdk", "openjdk-rt-1.8", "rt.jar") {
		t.Errorf("unexpected default lib %s", cfg.LibPath())
	}
	if cfg.Optimizer.MainClass != "com.android.tools.r8.R8" {
		t.Errorf("unexpected default optimizer main class %s", cfg.Optimizer.MainClass)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.RepoRoot = "/src/r8"

	tests := []struct {
		in   string
		want string
	}{
		{"build/libs", "/src/r8/build/libs"},
		{"/opt/rt.jar", "/opt/rt.jar"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cfg.ResolvePath(tt.in); got != filepath.FromSlash(tt.want) {
			t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateRejectsEmptyPaths(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Lib = "  "
	cfg.Optimizer.Jar = ""

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) || len(invalid.FieldErrors) != 2 {
		t.Fatalf("expected 2 field errors, got %v", err)
	}
	if !strings.Contains(err.Error(), "lib:") || !strings.Contains(err.Error(), "optimizer.jar:") {
		t.Errorf("error should name the offending fields: %v", err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	testutil.Unsetenv(t, "JARMIN_UI_VERBOSE")
	testutil.Unsetenv(t, "JARMIN_LIBS_DIR")

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no config file, got %s", path)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "custom.cue", `
repo_root: "/src/r8"
optimizer: {
	java: "/usr/lib/jvm/bin/java"
}
ui: verbose: true
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RepoRoot != "/src/r8" {
		t.Errorf("repo_root = %s", cfg.RepoRoot)
	}
	if cfg.Optimizer.Java != "/usr/lib/jvm/bin/java" {
		t.Errorf("optimizer.java = %s", cfg.Optimizer.Java)
	}
	if cfg.Optimizer.Jar != DefaultConfig().Optimizer.Jar {
		t.Errorf("unset optimizer.jar should keep its default, got %s", cfg.Optimizer.Jar)
	}
	if !cfg.UI.Verbose {
		t.Error("ui.verbose should be true")
	}
}

func TestLoadMainClassAcceptsJavaIdentifiers(t *testing.T) {
	t.Parallel()

	for _, mc := range []string{"com.example.€Tool", "com.example.Too\u006c\u0301", "com.example.\u216bTool"} {
		path := writeConfig(t, t.TempDir(), "jarmin.cue", fmt.Sprintf("optimizer: main_class: %q\n", mc))

		cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
		if err != nil {
			t.Errorf("Load() with main_class %q error: %v", mc, err)
			continue
		}
		if cfg.Optimizer.MainClass != mc {
			t.Errorf("optimizer.main_class = %q, want %q", cfg.Optimizer.MainClass, mc)
		}
	}
}

func TestLoadUserConfigDir(t *testing.T) {
	t.Chdir(t.TempDir())

	dir := t.TempDir()
	writeConfig(t, dir, "config.cue", `libs_dir: "out"`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("resolved path = %s", path)
	}
	if cfg.LibsDir != "out" {
		t.Errorf("libs_dir = %s", cfg.LibsDir)
	}
}

func TestLoadLocalFileWins(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)

	writeConfig(t, work, "jarmin.cue", `libs_dir: "local"`)
	userDir := t.TempDir()
	writeConfig(t, userDir, "config.cue", `libs_dir: "user"`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: userDir})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if path != "jarmin.cue" || cfg.LibsDir != "local" {
		t.Errorf("expected the local jarmin.cue to win, got %s from %s", cfg.LibsDir, path)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{
			name:    "missing explicit file",
			path:    filepath.Join(dir, "nope.cue"),
			wantMsg: "config file not found",
		},
		{
			name:    "unknown key",
			path:    writeConfig(t, dir, "unknown.cue", `output_jar: "x.jar"`),
			wantMsg: "output_jar",
		},
		{
			name:    "wrong type",
			path:    writeConfig(t, dir, "type.cue", `ui: verbose: "yes"`),
			wantMsg: "ui.verbose",
		},
		{
			name:    "empty path",
			path:    writeConfig(t, dir, "empty.cue", `lib: ""`),
			wantMsg: "lib",
		},
		{
			name:    "invalid optimizer main class",
			path:    writeConfig(t, dir, "main.cue", `optimizer: main_class: "com..R8"`),
			wantMsg: "optimizer.main_class",
		},
		{
			name:    "syntax error",
			path:    writeConfig(t, dir, "syntax.cue", `repo_root: {`),
			wantMsg: "syntax.cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: tt.path})
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := issue.ForError(err); got == nil || got.Id() != issue.ConfigLoadFailedId {
				t.Errorf("expected ConfigLoadFailedId, got %v", got)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("JARMIN_OPTIMIZER_JAVA", "/opt/java/bin/java")
	t.Setenv("JARMIN_UI_VERBOSE", "true")

	path := writeConfig(t, t.TempDir(), "jarmin.cue", `optimizer: java: "java17"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Optimizer.Java != "/opt/java/bin/java" {
		t.Errorf("environment should override the file, got %s", cfg.Optimizer.Java)
	}
	if !cfg.UI.Verbose {
		t.Error("JARMIN_UI_VERBOSE should enable verbose")
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	t.Parallel()

	dir, err := ConfigDir()
	if err != nil {
		t.Skipf("no user config directory on this host: %v", err)
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("ConfigDir() = %q, want a %s directory", dir, AppName)
	}
}
