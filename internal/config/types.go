package config

// Config represents the toposcale configuration file structure
type Config struct {
	// CPUs overrides the detected CPU count used as the task pool capacity
	// Zero means detect
	CPUs int `yaml:"cpus" json:"cpus"`

	// Output is the result format (table, csv, json, yaml)
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`

	// Progress shows a progress bar while tasks run
	Progress bool `yaml:"progress,omitempty" json:"progress,omitempty"`

	// Search configures the external search procedures
	Search SearchConfig `yaml:"search" json:"search"`
}

// SearchConfig holds the external search procedure settings
type SearchConfig struct {
	// HyperX is the flat search used for HyperX topologies
	HyperX ProcedureConfig `yaml:"hyperx" json:"hyperx"`

	// Dragonfly is the hierarchical search used for the Dragonfly topology
	Dragonfly ProcedureConfig `yaml:"dragonfly" json:"dragonfly"`

	// SpawnRate limits search processes started per second, 0 for no limit
	SpawnRate float64 `yaml:"spawnRate,omitempty" json:"spawnRate,omitempty"`
}

// ProcedureConfig locates one search procedure
type ProcedureConfig struct {
	// Script is the search driver executable
	Script string `yaml:"script" json:"script"`

	// Binary is the search engine the script drives, passed as its first argument
	Binary string `yaml:"binary" json:"binary"`
}
