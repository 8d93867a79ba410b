// Package config provides Viper-based configuration loading for the battle server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds battle engine and scheduler settings.
type BattleConfig struct {
	// MaxTurns is the per-battle turn ceiling.
	MaxTurns int `mapstructure:"max_turns"`
	// SweepInterval is how often the scheduler checks for stale battles.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// Timeout is how long a battle may stay active before it is timed out.
	Timeout time.Duration `mapstructure:"timeout"`
	// VictoryExperience is the experience reward granted to a winner.
	VictoryExperience int `mapstructure:"victory_experience"`
	// TurnOrder is "skip_eliminated" or "round_robin".
	TurnOrder string `mapstructure:"turn_order"`
	// StatusStacking is "enforced" or "unbounded".
	StatusStacking string `mapstructure:"status_stacking"`
	DefaultArena   string `mapstructure:"default_arena"`
	DefaultWeather string `mapstructure:"default_weather"`
}

// ContentConfig locates the YAML content and Lua scripts loaded at startup.
// An empty directory is skipped.
type ContentConfig struct {
	SkillsDir     string `mapstructure:"skills_dir"`
	ConditionsDir string `mapstructure:"conditions_dir"`
	EquipmentDir  string `mapstructure:"equipment_dir"`
	ScriptsDir    string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit bounds each Lua hook call; 0 selects the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// EventsConfig selects where notifications are published.
type EventsConfig struct {
	// Backend is "log" or "redis".
	Backend       string `mapstructure:"backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// DatabaseConfig holds PostgreSQL connection settings for the battle archive.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
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

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Content  ContentConfig  `mapstructure:"content"`
	Events   EventsConfig   `mapstructure:"events"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateBattle(c.Battle),
		validateContent(c.Content),
		validateEvents(c.Events),
		validateMetrics(c.Metrics),
		validateDatabase(c.Database),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("battle.max_turns must be >= 1, got %d", b.MaxTurns))
	}
	if b.SweepInterval < time.Second {
		errs = append(errs, fmt.Sprintf("battle.sweep_interval must be at least 1s, got %s", b.SweepInterval))
	}
	if b.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("battle.timeout must be positive, got %s", b.Timeout))
	}
	if b.VictoryExperience < 0 {
		errs = append(errs, fmt.Sprintf("battle.victory_experience must be >= 0, got %d", b.VictoryExperience))
	}
	if b.TurnOrder != "skip_eliminated" && b.TurnOrder != "round_robin" {
		errs = append(errs, fmt.Sprintf("battle.turn_order must be one of [skip_eliminated, round_robin], got %q", b.TurnOrder))
	}
	if b.StatusStacking != "enforced" && b.StatusStacking != "unbounded" {
		errs = append(errs, fmt.Sprintf("battle.status_stacking must be one of [enforced, unbounded], got %q", b.StatusStacking))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.ScriptInstructionLimit < 0 {
		return fmt.Errorf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
	}
	return nil
}

func validateEvents(e EventsConfig) error {
	switch e.Backend {
	case "log":
		return nil
	case "redis":
		if e.RedisAddr == "" {
			return errors.New("events.redis_addr must not be empty when events.backend is redis")
		}
		return nil
	default:
		return fmt.Errorf("events.backend must be one of [log, redis], got %q", e.Backend)
	}
}

func validateMetrics(m MetricsConfig) error {
	if m.Enabled && m.Addr == "" {
		return errors.New("metrics.addr must not be empty when metrics are enabled")
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if !d.Enabled {
		return nil
	}
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
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies BATTLE_
// environment variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	bindEnv(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadDefaults builds a Config from defaults and environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func LoadDefaults() (Config, error) {
	v := viper.New()
	bindEnv(v)
	setDefaults(v)
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("BATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("battle.max_turns", 100)
	v.SetDefault("battle.sweep_interval", "1m")
	v.SetDefault("battle.timeout", "30m")
	v.SetDefault("battle.victory_experience", 100)
	v.SetDefault("battle.turn_order", "skip_eliminated")
	v.SetDefault("battle.status_stacking", "enforced")
	v.SetDefault("battle.default_arena", "arena_default")
	v.SetDefault("battle.default_weather", "weather_clear")

	v.SetDefault("content.skills_dir", "")
	v.SetDefault("content.conditions_dir", "")
	v.SetDefault("content.equipment_dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 100000)

	v.SetDefault("events.backend", "log")
	v.SetDefault("events.redis_addr", "localhost:6379")
	v.SetDefault("events.channel_prefix", "battlecore:")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "battle")
	v.SetDefault("database.password", "battle")
	v.SetDefault("database.name", "battle")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
