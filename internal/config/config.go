// Package config provides Viper-based configuration loading for the
// Skirmish overlay server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the encounter archive.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// CombatConfig holds turn-sequencing settings.
type CombatConfig struct {
	// TurnDuration is how long an actor may hold the turn before it is
	// advanced automatically. Zero disables the turn timer.
	TurnDuration time.Duration `mapstructure:"turn_duration"`
	// ArchiveEnabled controls whether finished encounters are written to
	// the Postgres archive.
	ArchiveEnabled bool `mapstructure:"archive_enabled"`
	// ScriptDir is the directory holding encounter hook scripts. Empty
	// disables scripting.
	ScriptDir string `mapstructure:"script_dir"`
	// ScriptInstructionLimit caps the total Lua opcodes a world's script
	// VM may execute over its lifetime. Zero uses the scripting package
	// default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// TargetingConfig holds target-selection and highlight settings.
type TargetingConfig struct {
	// RefreshInterval is the minimum time between particle re-emissions
	// for an unchanged highlight.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	// LowHPThreshold is the HP fraction below which the highlight turns red.
	LowHPThreshold float64 `mapstructure:"low_hp_threshold"`
}

// MovementConfig holds grid movement and path rendering settings.
type MovementConfig struct {
	// RefreshInterval is the minimum time between particle re-emissions
	// for an unchanged path.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	// SpeedBlocks is how many grid steps an actor may move in one turn.
	SpeedBlocks int `mapstructure:"speed_blocks"`
}

// HudConfig holds combat HUD settings.
type HudConfig struct {
	// MaxSlots is the number of initiative slots available in the HUD widget.
	MaxSlots int `mapstructure:"max_slots"`
}

// TickConfig holds the periodic sweep settings.
type TickConfig struct {
	// SweepInterval is how often highlight and path caches are re-examined.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Combat    CombatConfig    `mapstructure:"combat"`
	Targeting TargetingConfig `mapstructure:"targeting"`
	Movement  MovementConfig  `mapstructure:"movement"`
	Hud       HudConfig       `mapstructure:"hud"`
	Tick      TickConfig      `mapstructure:"tick"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Combat.ArchiveEnabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTargeting(c.Targeting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMovement(c.Movement); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Hud.MaxSlots < 1 {
		errs = append(errs, fmt.Sprintf("hud.max_slots must be >= 1, got %d", c.Hud.MaxSlots))
	}
	if c.Tick.SweepInterval <= 0 {
		errs = append(errs, "tick.sweep_interval must be > 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.TurnDuration < 0 {
		errs = append(errs, "combat.turn_duration must not be negative")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, "combat.script_instruction_limit must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTargeting(t TargetingConfig) error {
	var errs []string
	if t.RefreshInterval <= 0 {
		errs = append(errs, "targeting.refresh_interval must be > 0")
	}
	if t.LowHPThreshold < 0 || t.LowHPThreshold > 1 {
		errs = append(errs, fmt.Sprintf("targeting.low_hp_threshold must be in [0, 1], got %g", t.LowHPThreshold))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMovement(m MovementConfig) error {
	var errs []string
	if m.RefreshInterval <= 0 {
		errs = append(errs, "movement.refresh_interval must be > 0")
	}
	if m.SpeedBlocks < 1 {
		errs = append(errs, fmt.Sprintf("movement.speed_blocks must be >= 1, got %d", m.SpeedBlocks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("nil viper instance")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in defaults, as used when no config file overrides them.
//
// Postcondition: The returned Config passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// The default keys match the struct tags, so this cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "skirmish")
	v.SetDefault("database.password", "skirmish")
	v.SetDefault("database.name", "skirmish")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("combat.turn_duration", "60s")
	v.SetDefault("combat.archive_enabled", false)
	v.SetDefault("combat.script_dir", "")
	v.SetDefault("combat.script_instruction_limit", 0)

	v.SetDefault("targeting.refresh_interval", "400ms")
	v.SetDefault("targeting.low_hp_threshold", 0.25)

	v.SetDefault("movement.refresh_interval", "500ms")
	v.SetDefault("movement.speed_blocks", 6)

	v.SetDefault("hud.max_slots", 8)

	v.SetDefault("tick.sweep_interval", "250ms")
}
