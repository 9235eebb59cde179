package config

import (
	"github.com/xAGI-labs/ProjectOM/internal/omserver/options"
)

// Config is the running configuration structure of the omserver service.
type Config struct {
	*options.Options
}

// CreateConfigFromOptions creates a running configuration instance based
// on a given omserver command line or configuration file option.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	return &Config{opts}, nil
}
