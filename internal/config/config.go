// Package config provides Viper-based configuration loading for the bot.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File is an optional rolling log file path. Empty disables the file sink.
	File string `mapstructure:"file"`
	// MaxSizeMB is the size in megabytes at which the log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files to retain.
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays is the number of days to retain rotated files.
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// BallisticsConfig holds the physical constants shared by the angle solver and
// the trajectory tracer. Both must see the same values.
type BallisticsConfig struct {
	// Gravity is the downward acceleration in world units per second squared.
	Gravity float64 `mapstructure:"gravity"`
	// MaxVelocity is the launch speed at strength 1.0.
	MaxVelocity float64 `mapstructure:"max_velocity"`
	// TileSize is the edge length of a grid cell in world units.
	TileSize float64 `mapstructure:"tile_size"`
	// TimeStep is the simulation step used when tracing a trajectory.
	TimeStep float64 `mapstructure:"time_step"`
	// VelocitySamples is the number of launch speeds tried between the
	// minimal velocity and MaxVelocity.
	VelocitySamples int `mapstructure:"velocity_samples"`
	// MaxSamples caps the number of time steps in a single trace.
	MaxSamples int `mapstructure:"max_samples"`
}

// StrategyConfig holds target selection and movement parameters.
type StrategyConfig struct {
	MaxHealth  int `mapstructure:"max_health"`
	HealAmount int `mapstructure:"heal_amount"`
	// MovementBound is the furthest lateral offset, in world units, tried when
	// searching for a firing position.
	MovementBound int `mapstructure:"movement_bound"`
	// MoveStep is the spacing of candidate offsets in world units.
	MoveStep int `mapstructure:"move_step"`
	// StaminaGated additionally limits the offset search by the shooter's stamina.
	StaminaGated bool `mapstructure:"stamina_gated"`
	// StrictInvariants panics on invariant violations instead of logging them.
	StrictInvariants bool `mapstructure:"strict_invariants"`
}

// WeaponConfig holds the per-shot properties of one weapon.
type WeaponConfig struct {
	Damage int `mapstructure:"damage"`
	// Range is the maximum effective distance in world units; 0 = unbounded.
	Range float64 `mapstructure:"range"`
}

// WeaponsConfig holds the weapon catalog.
type WeaponsConfig struct {
	WaterPistol WeaponConfig `mapstructure:"water_pistol"`
	Mjolnir     WeaponConfig `mapstructure:"mjolnir"`
}

// ScriptingConfig holds optional Lua target-filter settings.
type ScriptingConfig struct {
	// Dir holds *.lua files defining hooks. Empty disables scripting.
	Dir string `mapstructure:"dir"`
	// Profile names the VM the hooks are loaded into.
	Profile string `mapstructure:"profile"`
	// InstructionLimit caps opcodes per hook call; 0 uses the sandbox default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Ballistics BallisticsConfig `mapstructure:"ballistics"`
	Strategy   StrategyConfig   `mapstructure:"strategy"`
	Weapons    WeaponsConfig    `mapstructure:"weapons"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBallistics(c.Ballistics); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStrategy(c.Strategy); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWeapons(c.Weapons); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.File != "" && l.MaxSizeMB < 1 {
		errs = append(errs, fmt.Sprintf("logging.max_size_mb must be >= 1 when logging.file is set, got %d", l.MaxSizeMB))
	}
	if l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		errs = append(errs, "logging.max_backups and logging.max_age_days must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBallistics(b BallisticsConfig) error {
	var errs []string
	if b.Gravity <= 0 {
		errs = append(errs, fmt.Sprintf("ballistics.gravity must be > 0, got %g", b.Gravity))
	}
	if b.MaxVelocity <= 0 {
		errs = append(errs, fmt.Sprintf("ballistics.max_velocity must be > 0, got %g", b.MaxVelocity))
	}
	if b.TileSize <= 0 {
		errs = append(errs, fmt.Sprintf("ballistics.tile_size must be > 0, got %g", b.TileSize))
	}
	if b.TimeStep <= 0 {
		errs = append(errs, fmt.Sprintf("ballistics.time_step must be > 0, got %g", b.TimeStep))
	}
	if b.VelocitySamples < 2 {
		errs = append(errs, fmt.Sprintf("ballistics.velocity_samples must be >= 2, got %d", b.VelocitySamples))
	}
	if b.MaxSamples < 1 {
		errs = append(errs, fmt.Sprintf("ballistics.max_samples must be >= 1, got %d", b.MaxSamples))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStrategy(s StrategyConfig) error {
	var errs []string
	if s.MaxHealth < 1 {
		errs = append(errs, fmt.Sprintf("strategy.max_health must be >= 1, got %d", s.MaxHealth))
	}
	if s.HealAmount < 0 || s.HealAmount > s.MaxHealth {
		errs = append(errs, fmt.Sprintf("strategy.heal_amount must be 0-%d, got %d", s.MaxHealth, s.HealAmount))
	}
	if s.MovementBound < 0 {
		errs = append(errs, fmt.Sprintf("strategy.movement_bound must be >= 0, got %d", s.MovementBound))
	}
	if s.MoveStep < 1 {
		errs = append(errs, fmt.Sprintf("strategy.move_step must be >= 1, got %d", s.MoveStep))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWeapons(w WeaponsConfig) error {
	var errs []string
	for name, wc := range map[string]WeaponConfig{"water_pistol": w.WaterPistol, "mjolnir": w.Mjolnir} {
		if wc.Damage < 0 {
			errs = append(errs, fmt.Sprintf("weapons.%s.damage must be >= 0, got %d", name, wc.Damage))
		}
		if wc.Range < 0 {
			errs = append(errs, fmt.Sprintf("weapons.%s.range must be >= 0, got %g", name, wc.Range))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	if s.Dir != "" && s.Profile == "" {
		return fmt.Errorf("scripting.profile must not be empty when scripting.dir is set")
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

	// Environment variable overrides with ARCBOT_ prefix
	v.SetEnvPrefix("ARCBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

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

// Default returns the built-in configuration without reading any file.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("config.Default: built-in defaults are invalid: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 7)

	v.SetDefault("ballistics.gravity", 9.81*16)
	v.SetDefault("ballistics.max_velocity", 400.0)
	v.SetDefault("ballistics.tile_size", 16.0)
	v.SetDefault("ballistics.time_step", 0.01)
	v.SetDefault("ballistics.velocity_samples", 200)
	v.SetDefault("ballistics.max_samples", 20000)

	v.SetDefault("strategy.max_health", 100)
	v.SetDefault("strategy.heal_amount", 35)
	v.SetDefault("strategy.movement_bound", 60)
	v.SetDefault("strategy.move_step", 1)
	v.SetDefault("strategy.stamina_gated", false)
	v.SetDefault("strategy.strict_invariants", false)

	v.SetDefault("weapons.water_pistol.damage", 10)
	v.SetDefault("weapons.water_pistol.range", 0.0)
	v.SetDefault("weapons.mjolnir.damage", 35)
	v.SetDefault("weapons.mjolnir.range", 240.0)

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.profile", "default")
	v.SetDefault("scripting.instruction_limit", 100000)
}
