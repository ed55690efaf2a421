// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from. The zero value
	// searches ./jarmin.cue, then config.cue in ConfigDir.
	LoadOptions struct {
		// ConfigFilePath is the --config value. When set, only this file is
		// read and it must exist.
		ConfigFilePath string
		// ConfigDirPath replaces ConfigDir in the implicit search.
		ConfigDirPath string
	}

	// Provider loads a validated Config. The CLI depends on this interface
	// so commands can run against a fixed Config.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// ProviderFunc adapts a function to Provider.
	ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, error)

	fileProvider struct{}
)

// NewProvider returns the Provider that reads CUE files and JARMIN_*
// environment variables.
func NewProvider() Provider {
	return fileProvider{}
}

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return f(ctx, opts)
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}
