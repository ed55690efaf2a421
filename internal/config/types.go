// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"jarmin/pkg/types"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the resolved jarmin configuration.
	Config struct {
		// RepoRoot is the directory relative paths are resolved against.
		RepoRoot string `json:"repo_root" mapstructure:"repo_root"`
		// LibsDir receives outputs named after an explicit main class.
		LibsDir string `json:"libs_dir" mapstructure:"libs_dir"`
		// InputJar is the default program JAR.
		InputJar string `json:"input_jar" mapstructure:"input_jar"`
		// Lib is the default Java runtime library.
		Lib string `json:"lib" mapstructure:"lib"`
		// Optimizer configures how R8 is launched.
		Optimizer OptimizerConfig `json:"optimizer" mapstructure:"optimizer"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// OptimizerConfig configures the optimizer process.
	OptimizerConfig struct {
		Java      string `json:"java" mapstructure:"java"`
		Jar       string `json:"jar" mapstructure:"jar"`
		MainClass string `json:"main_class" mapstructure:"main_class"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when a Config has empty required
	// paths. It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration, laid out like an R8 checkout.
func DefaultConfig() *Config {
	return &Config{
		RepoRoot: ".",
		LibsDir:  filepath.Join("build", "libs"),
		InputJar: filepath.Join("build", "libs", "r8.jar"),
		Lib:      filepath.Join("third_party", "openjdk", "openjdk-rt-1.8", "rt.jar"),
		Optimizer: OptimizerConfig{
			Java:      "java",
			Jar:       filepath.Join("build", "libs", "r8.jar"),
			MainClass: "com.android.tools.r8.R8",
		},
	}
}

// ResolvePath resolves p against RepoRoot unless it is already absolute.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RepoRoot, p)
}

// InputJarPath returns the default input JAR path.
func (c *Config) InputJarPath() string { return c.ResolvePath(c.InputJar) }

// LibPath returns the default library JAR path.
func (c *Config) LibPath() string { return c.ResolvePath(c.Lib) }

// LibsDirPath returns the directory for main-class-named outputs.
func (c *Config) LibsDirPath() string { return c.ResolvePath(c.LibsDir) }

// OptimizerJarPath returns the JAR containing the optimizer.
func (c *Config) OptimizerJarPath() string { return c.ResolvePath(c.Optimizer.Jar) }

// Validate returns an error if any required path is empty or whitespace-only.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"repo_root", c.RepoRoot},
		{"libs_dir", c.LibsDir},
		{"input_jar", c.InputJar},
		{"lib", c.Lib},
		{"optimizer.java", c.Optimizer.Java},
		{"optimizer.jar", c.Optimizer.Jar},
	}

	var errs []error
	for _, f := range fields {
		if err := types.FilesystemPath(f.value).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
