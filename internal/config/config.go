package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aryankumar/toposcale/internal/util"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".toposcale"
	defaultConfigDir  = ".toposcale"
	envPrefix         = "TOPOSCALE"

	// Default search locations, relative to the home directory
	defaultHyperXScript    = "~/dev/hyperxsearch/scripts/hyperx_flat_search.py"
	defaultDragonflyScript = "~/dev/hyperxsearch/scripts/hyperx_hierarchical_search.py"
	defaultSearchBinary    = "~/dev/hyperxsearch/bin/hyperxsearch"
)

// Output formats accepted by the output key
var validOutputs = []string{"table", "csv", "json", "yaml"}

// Configuration keys, also used for flag binding
const (
	KeyCPUs            = "cpus"
	KeyOutput          = "output"
	KeyNoColor         = "noColor"
	KeyProgress        = "progress"
	KeySpawnRate       = "search.spawnRate"
	KeyHyperXScript    = "search.hyperx.script"
	KeyHyperXBinary    = "search.hyperx.binary"
	KeyDragonflyScript = "search.dragonfly.script"
	KeyDragonflyBinary = "search.dragonfly.binary"
)

// Manager handles toposcale configuration from file, environment and flags.
// Precedence follows viper: flags, environment, config file, defaults.
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
// An empty configPath searches the home directory
func NewManager(configPath string) *Manager {
	v := viper.New()
	v.SetDefault(KeyCPUs, 0)
	v.SetDefault(KeyOutput, "table")
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyProgress, false)
	v.SetDefault(KeySpawnRate, 0.0)
	v.SetDefault(KeyHyperXScript, defaultHyperXScript)
	v.SetDefault(KeyHyperXBinary, defaultSearchBinary)
	v.SetDefault(KeyDragonflyScript, defaultDragonflyScript)
	v.SetDefault(KeyDragonflyBinary, defaultSearchBinary)

	return &Manager{
		configPath: configPath,
		viper:      v,
		config:     &Config{},
	}
}

// BindFlag binds a command-line flag to a configuration key
func (m *Manager) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for key %q", key)
	}
	return m.viper.BindPFlag(key, flag)
}

// Load loads the configuration and applies defaults
// A missing config file is not an error
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ~/.toposcale/.toposcale.yaml, then ~/.toposcale.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	m.config = &Config{}

	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.applyDefaults(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// Validate checks the loaded configuration and reports every problem found.
// Each problem is a ConfigurationError naming the offending key.
func (m *Manager) Validate() error {
	c := m.config
	if c == nil {
		return util.NewConfigurationError("config", nil, "configuration not loaded")
	}

	var errs util.MultiError

	if c.CPUs < 0 {
		errs.Add(util.NewConfigurationError(KeyCPUs, c.CPUs, "must not be negative"))
	}

	if c.Search.SpawnRate < 0 {
		errs.Add(util.NewConfigurationError(KeySpawnRate, c.Search.SpawnRate, "must not be negative"))
	}

	if !isValidOutput(c.Output) {
		errs.Add(util.NewConfigurationError(KeyOutput, c.Output,
			fmt.Sprintf("must be one of %s", strings.Join(validOutputs, ", "))))
	}

	required := []struct {
		key   string
		value string
	}{
		{KeyHyperXScript, c.Search.HyperX.Script},
		{KeyHyperXBinary, c.Search.HyperX.Binary},
		{KeyDragonflyScript, c.Search.Dragonfly.Script},
		{KeyDragonflyBinary, c.Search.Dragonfly.Binary},
	}
	for _, r := range required {
		if r.value == "" {
			errs.Add(util.NewConfigurationError(r.key, nil, "must not be empty"))
		}
	}

	return errs.ErrorOrNil()
}

// Save writes the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigName+".yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c := m.config
	m.viper.Set(KeyCPUs, c.CPUs)
	m.viper.Set(KeyOutput, c.Output)
	m.viper.Set(KeyNoColor, c.NoColor)
	m.viper.Set(KeyProgress, c.Progress)
	m.viper.Set(KeySpawnRate, c.Search.SpawnRate)
	m.viper.Set(KeyHyperXScript, c.Search.HyperX.Script)
	m.viper.Set(KeyHyperXBinary, c.Search.HyperX.Binary)
	m.viper.Set(KeyDragonflyScript, c.Search.Dragonfly.Script)
	m.viper.Set(KeyDragonflyBinary, c.Search.Dragonfly.Binary)

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return util.WrapErrorf(err, "failed to write config file %s", m.configPath)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// ConfigPath returns the file Save writes to, empty until a path is known
func (m *Manager) ConfigPath() string {
	return m.configPath
}

// ConfigFileUsed returns the config file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// applyDefaults fills empty values and expands ~ in search paths
func (m *Manager) applyDefaults() error {
	c := m.config

	if c.Output == "" {
		c.Output = "table"
	}
	c.Output = strings.ToLower(c.Output)

	paths := []*string{
		&c.Search.HyperX.Script,
		&c.Search.HyperX.Binary,
		&c.Search.Dragonfly.Script,
		&c.Search.Dragonfly.Binary,
	}
	for _, p := range paths {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func isValidOutput(output string) bool {
	for _, v := range validOutputs {
		if output == v {
			return true
		}
	}
	return false
}
