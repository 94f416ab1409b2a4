// Package config loads runtime settings from an optional YAML file,
// SKIRMISH_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config is the full runtime configuration.
type Config struct {
	Catalog   string        `mapstructure:"catalog"`
	Encounter string        `mapstructure:"encounter"`
	Seed      int64         `mapstructure:"seed"`
	Logging   LoggingConfig `mapstructure:"logging"`
	Server    ServerConfig  `mapstructure:"server"`
	Net       NetConfig     `mapstructure:"net"`
	Delays    DelayConfig   `mapstructure:"delays"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// NetConfig configures TCP hosting.
type NetConfig struct {
	Port string `mapstructure:"port"`
}

// DelayConfig holds presentation pacing per cue.
type DelayConfig struct {
	PlayCard    time.Duration `mapstructure:"play_card"`
	Hit         time.Duration `mapstructure:"hit"`
	Death       time.Duration `mapstructure:"death"`
	EnemyAction time.Duration `mapstructure:"enemy_action"`
	TurnStart   time.Duration `mapstructure:"turn_start"`
}

// Game converts the pacing into battle delays.
func (d DelayConfig) Game() game.Delays {
	return game.Delays{
		PlayCard:    d.PlayCard,
		Hit:         d.Hit,
		Death:       d.Death,
		EnemyAction: d.EnemyAction,
		TurnStart:   d.TurnStart,
	}
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind flags to it before passing it to Decode.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	d := game.DefaultDelays()
	v.SetDefault("catalog", "")
	v.SetDefault("encounter", "cultist")
	v.SetDefault("seed", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("net.port", "9090")
	v.SetDefault("delays.play_card", d.PlayCard)
	v.SetDefault("delays.hit", d.Hit)
	v.SetDefault("delays.death", d.Death)
	v.SetDefault("delays.enemy_action", d.EnemyAction)
	v.SetDefault("delays.turn_start", d.TurnStart)
}

// Load reads the file at path (if any) and returns the validated config.
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// ReadFile merges a YAML config file into v. An empty path is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json", "":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	for name, d := range map[string]time.Duration{
		"delays.play_card":    c.Delays.PlayCard,
		"delays.hit":          c.Delays.Hit,
		"delays.death":        c.Delays.Death,
		"delays.enemy_action": c.Delays.EnemyAction,
		"delays.turn_start":   c.Delays.TurnStart,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s: negative duration %s", name, d))
		}
	}
	if c.Encounter == "" {
		errs = append(errs, errors.New("encounter: must not be empty"))
	}
	return errors.Join(errs...)
}
