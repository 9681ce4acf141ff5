package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/geofield/internal/domain"
)

// Config holds the geofield configuration.
type Config struct {
	Enrich  EnrichConfig  `yaml:"enrich" toml:"enrich"`
	Filter  FilterConfig  `yaml:"filter" toml:"filter"`
	Input   InputConfig   `yaml:"input" toml:"input"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// EnrichConfig holds the derived-field settings.
type EnrichConfig struct {
	LatField          string `yaml:"lat_field" toml:"lat_field" validate:"required"`
	LonField          string `yaml:"lon_field" toml:"lon_field" validate:"required"`
	TargetField       string `yaml:"target_field" toml:"target_field" validate:"required"`
	Separator         string `yaml:"separator" toml:"separator" validate:"required"`
	MultiValue        string `yaml:"multi_value" toml:"multi_value" validate:"oneof=first reject"`
	StrictCoordinates bool   `yaml:"strict_coordinates" toml:"strict_coordinates"`
}

// FilterConfig holds the partition filter settings (disabled by default).
type FilterConfig struct {
	Enabled bool     `yaml:"enabled" toml:"enabled"`
	Field   string   `yaml:"field" toml:"field" validate:"required"`
	Allowed []string `yaml:"allowed" toml:"allowed" validate:"required_if=Enabled true,dive,required"`
}

// InputConfig holds input stream limits.
type InputConfig struct {
	MaxLineBytes int `yaml:"max_line_bytes" toml:"max_line_bytes" validate:"gte=1024"`
}

// MetricsConfig holds the ops endpoint settings. Empty Addr disables it.
type MetricsConfig struct {
	Addr        string `yaml:"addr" toml:"addr" validate:"omitempty,hostname_port"`
	ShutdownSec int    `yaml:"shutdown_timeout_sec" toml:"shutdown_timeout_sec" validate:"gte=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"` // default: determined by env
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report yaml names (enrich.lat_field) instead of Go names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// Load reads configuration from a YAML or TOML file (chosen by extension).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q: %w", filepath.Ext(path), domain.ErrInvalidConfig)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Resolve loads path when given, otherwise config/<env>.yaml if present,
// otherwise the built-in defaults.
func Resolve(path, env string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	if p := findConfigPath(env); fileExists(p) {
		return Load(p)
	}
	return Default(), nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Enrich.LatField == "" {
		c.Enrich.LatField = "lat"
	}
	if c.Enrich.LonField == "" {
		c.Enrich.LonField = "lon"
	}
	if c.Enrich.TargetField == "" {
		c.Enrich.TargetField = "geo"
	}
	if c.Enrich.Separator == "" {
		c.Enrich.Separator = ","
	}
	if c.Enrich.MultiValue == "" {
		c.Enrich.MultiValue = "first"
	}
	if c.Filter.Field == "" {
		c.Filter.Field = "partition"
	}
	if c.Input.MaxLineBytes <= 0 {
		c.Input.MaxLineBytes = 4 << 20
	}
	if c.Metrics.ShutdownSec <= 0 {
		c.Metrics.ShutdownSec = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s fails %q: %w",
				strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag(), domain.ErrInvalidConfig)
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, err.Error())
	}

	e := c.Enrich
	if e.LatField == e.LonField || e.TargetField == e.LatField || e.TargetField == e.LonField {
		return fmt.Errorf(
			"enrich.lat_field, lon_field and target_field must differ, got %q, %q, %q: %w",
			e.LatField, e.LonField, e.TargetField, domain.ErrInvalidConfig,
		)
	}
	return nil
}

// findConfigPath locates the config file for env.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
