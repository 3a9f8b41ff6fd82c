// Package configschema provides configuration loading and validation for yolk projects.
//
// Overview:
//   - Responsibility: Read yolk.yaml (with YOLK_* environment overrides), fill defaults,
//     validate, and write new configuration files
//   - Key Types: Config, Schema, Diagnostics
//   - Concurrency Model: Immutable configuration after loading
//   - Error Semantics: Problems are reported as Diagnostics; Diagnostics.Err converts
//     error-level items into an INVALID_ARGUMENT error
//
// Usage:
//
//	config, diags := configschema.Load("yolk.yaml", schema)
//	if diags.HasErrors() {
//	    return diags.Err()
//	}
package configschema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file name looked up in the project root.
const DefaultFile = "yolk.yaml"

// CurrentVersion is the config_version written by Save.
const CurrentVersion = "1"

// EnvPrefix prefixes environment overrides, e.g. YOLK_DATABASE_URL.
const EnvPrefix = "YOLK"

// Default values.
const (
	DefaultORM             = "sequelize"
	DefaultControllersPath = "app/controllers"
	DefaultModelsPath      = "app/models"
	DefaultMigrationsPath  = "database/migrations"
	DefaultRoutesPath      = "app/routes"
	DefaultStubsPath       = "stubs"
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "console"
)

// defaultDialects maps built-in ORMs to the dialect used when none is configured.
var defaultDialects = map[string]string{
	"sequelize": "postgres",
	"mongoose":  "mongodb",
}

// Config represents the complete yolk project configuration.
type Config struct {
	ConfigVersion string                 `yaml:"config_version" mapstructure:"config_version"`
	ProjectName   string                 `yaml:"project_name" mapstructure:"project_name" validate:"omitempty,max=100"`
	ORM           string                 `yaml:"orm" mapstructure:"orm" validate:"required"`
	Paths         PathsConfig            `yaml:"paths" mapstructure:"paths"`
	Database      DatabaseConfig         `yaml:"database" mapstructure:"database"`
	Mongoose      MongooseConfig         `yaml:"mongoose,omitempty" mapstructure:"mongoose"`
	Log           LogConfig              `yaml:"log" mapstructure:"log"`
	Commands      map[string]CommandSpec `yaml:"commands,omitempty" mapstructure:"commands" validate:"dive,keys,cmdname,endkeys"`
}

// PathsConfig defines where generated files go, relative to the project root.
type PathsConfig struct {
	Controllers string `yaml:"controllers" mapstructure:"controllers" validate:"required,relpath"`
	Models      string `yaml:"models" mapstructure:"models" validate:"required,relpath"`
	Migrations  string `yaml:"migrations" mapstructure:"migrations" validate:"required,relpath"`
	Routes      string `yaml:"routes" mapstructure:"routes" validate:"required,relpath"`
	Stubs       string `yaml:"stubs" mapstructure:"stubs" validate:"required,relpath"`
}

// DatabaseConfig defines how migration tools and connection checks reach the database.
type DatabaseConfig struct {
	Dialect string `yaml:"dialect" mapstructure:"dialect" validate:"required,lowercase"`
	URL     string `yaml:"url,omitempty" mapstructure:"url"`
	Env     string `yaml:"env,omitempty" mapstructure:"env"`
}

// MongooseConfig holds migrate-mongo settings.
type MongooseConfig struct {
	Config string `yaml:"config,omitempty" mapstructure:"config"`
}

// LogConfig controls structured diagnostics.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=console json"`
	File   string `yaml:"file,omitempty" mapstructure:"file"`
}

// CommandSpec is a user command declared in the commands section.
type CommandSpec struct {
	Description string `yaml:"description,omitempty" mapstructure:"description"`
	Run         string `yaml:"run" mapstructure:"run" validate:"required"`
}

// Schema carries the registries a configuration is validated against.
// Nil fields skip the corresponding checks.
type Schema struct {
	ORMs         map[string][]string // ORM name to supported dialects
	CoreCommands []string            // Names user commands must not shadow
}

// Default returns a configuration with every default applied for the given ORM.
func Default(orm string) *Config {
	config := &Config{ORM: orm}
	applyDefaults(config, "")
	return config
}

// Load reads a yolk.yaml configuration file.
// A missing file is not an error: defaults and environment overrides still apply.
//
// Parameters:
//   - path: Path to the configuration file
//   - schema: Registries to validate ORM, dialect and command names against
//
// Returns:
//   - *Config: Parsed configuration with defaults applied (nil on parse failure)
//   - *Diagnostics: Validation issues found
func Load(path string, schema Schema) (*Config, *Diagnostics) {
	diags := NewDiagnostics()

	v := newViper()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			diags.AddError(fmt.Sprintf("Failed to parse YAML: %v", err), path, "Check YAML syntax")
			return nil, diags
		}
	} else if os.IsNotExist(err) {
		diags.AddInfo("Configuration file not found, using defaults", path, "Run 'yolk init' to create "+DefaultFile)
	} else {
		diags.AddError(fmt.Sprintf("Failed to read configuration file: %v", err), path, "Check file permissions")
		return nil, diags
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		diags.AddError(fmt.Sprintf("Failed to decode configuration: %v", err), path, "Check value types")
		return nil, diags
	}

	applyDefaults(&config, filepath.Dir(path))
	validateConfig(&config, schema, diags)

	return &config, diags
}

// Save writes config as YAML to path.
func Save(path string, config *Config) error {
	var b strings.Builder
	b.WriteString("# yolk project configuration\n")

	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// DefaultDialect returns the dialect used for orm when none is configured.
func DefaultDialect(orm string) string {
	return defaultDialects[strings.ToLower(orm)]
}

// newViper creates a viper instance with every key registered so that
// YOLK_* variables override file values during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("config_version", CurrentVersion)
	v.SetDefault("project_name", "")
	v.SetDefault("orm", DefaultORM)
	v.SetDefault("paths.controllers", DefaultControllersPath)
	v.SetDefault("paths.models", DefaultModelsPath)
	v.SetDefault("paths.migrations", DefaultMigrationsPath)
	v.SetDefault("paths.routes", DefaultRoutesPath)
	v.SetDefault("paths.stubs", DefaultStubsPath)
	v.SetDefault("database.dialect", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.env", "")
	v.SetDefault("mongoose.config", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")
	return v
}

// applyDefaults fills in default values for missing configuration.
// dir is the directory holding the config file, used for the project name.
func applyDefaults(config *Config, dir string) {
	if config.ConfigVersion == "" {
		config.ConfigVersion = CurrentVersion
	}

	if config.ProjectName == "" && dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			config.ProjectName = filepath.Base(abs)
		}
	}

	config.ORM = strings.ToLower(strings.TrimSpace(config.ORM))
	if config.ORM == "" {
		config.ORM = DefaultORM
	}

	setDefault(&config.Paths.Controllers, DefaultControllersPath)
	setDefault(&config.Paths.Models, DefaultModelsPath)
	setDefault(&config.Paths.Migrations, DefaultMigrationsPath)
	setDefault(&config.Paths.Routes, DefaultRoutesPath)
	setDefault(&config.Paths.Stubs, DefaultStubsPath)

	config.Database.Dialect = strings.ToLower(strings.TrimSpace(config.Database.Dialect))
	setDefault(&config.Database.Dialect, DefaultDialect(config.ORM))

	config.Log.Level = strings.ToLower(config.Log.Level)
	setDefault(&config.Log.Level, DefaultLogLevel)
	setDefault(&config.Log.Format, DefaultLogFormat)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
