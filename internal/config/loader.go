package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. LOANFORM_API_BASE_URL.
const EnvPrefix = "LOANFORM"

type loadOptions struct {
	configFile string
	envFiles   []string
	overrides  map[string]any
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

// WithConfigFile reads an explicit YAML/JSON/TOML file instead of searching
// ./configs and the working directory for "loanform.*".
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.configFile = strings.TrimSpace(path)
	}
}

// WithEnvFiles loads dotenv files before reading the environment. Missing
// files are skipped.
func WithEnvFiles(paths ...string) LoadOption {
	return func(o *loadOptions) {
		o.envFiles = append(o.envFiles, paths...)
	}
}

// WithOverrides applies values with the highest precedence, typically parsed
// command-line flags. Empty strings are ignored.
func WithOverrides(values map[string]any) LoadOption {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]any, len(values))
		}
		for key, value := range values {
			if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
				continue
			}
			o.overrides[key] = value
		}
	}
}

// Load resolves configuration from defaults, an optional config file, dotenv
// files, LOANFORM_* environment variables and explicit overrides, in that
// order of increasing precedence.
func Load(options ...LoadOption) (*Config, error) {
	opts := loadOptions{envFiles: []string{".env"}}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	loadEnvFiles(opts.envFiles)

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
	} else {
		v.SetConfigName("loanform")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config: %w", err)
		}
	}

	for key, value := range opts.overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFiles(paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// godotenv.Load never overrides variables that are already set.
		_ = godotenv.Load(path)
	}
}
