package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GridPath is a single .hcl graph file or a directory of them.
	GridPath string
	// Targets are the node ids to resolve. Empty means every declared node.
	Targets []string
	// Params are raw `name=value` assignments exposed to node expressions
	// as param.<name>.
	Params []string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
