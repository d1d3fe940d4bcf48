// internal/config/config.go

// Package config holds the application configuration, loaded from a YAML
// file plus TASKWIZARD_* environment variables via viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the root of all application configuration.
type Config struct {
	Logger   LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Device   DeviceConfig      `mapstructure:"device" yaml:"device"`
	Model    ModelConfig       `mapstructure:"model" yaml:"model"`
	Executor ExecutorConfig    `mapstructure:"executor" yaml:"executor"`
	Apps     map[string]string `mapstructure:"apps" yaml:"apps"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for console log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// DeviceConfig describes the target device and its bridge.
type DeviceConfig struct {
	ADBPath          string        `mapstructure:"adb_path" yaml:"adb_path"`
	Serial           string        `mapstructure:"serial" yaml:"serial"`
	CommandTimeout   time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
	BroadcastTimeout time.Duration `mapstructure:"broadcast_timeout" yaml:"broadcast_timeout"`
	ScreenshotDir    string        `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	ScreenWidth      int           `mapstructure:"screen_width" yaml:"screen_width"`
	ScreenHeight     int           `mapstructure:"screen_height" yaml:"screen_height"`
}

// ModelConfig configures one remote model endpoint. Each distinct endpoint
// configuration owns its own circuit-breaker state; changing this config
// resets the breaker.
type ModelConfig struct {
	Provider         string        `mapstructure:"provider" yaml:"provider"`
	Endpoint         string        `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey           string        `mapstructure:"api_key" yaml:"api_key"`
	Model            string        `mapstructure:"model" yaml:"model"`
	APITimeout       time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature      float32       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens        int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	MaxAttempts      int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	BreakerThreshold int           `mapstructure:"breaker_threshold" yaml:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown" yaml:"breaker_cooldown"`
	RequestsPerMin   float64       `mapstructure:"requests_per_min" yaml:"requests_per_min"`
}

// ExecutorConfig tunes replay pacing and input-method handling.
type ExecutorConfig struct {
	TapSettle      time.Duration `mapstructure:"tap_settle" yaml:"tap_settle"`
	SwipeSettle    time.Duration `mapstructure:"swipe_settle" yaml:"swipe_settle"`
	GlobalSettle   time.Duration `mapstructure:"global_settle" yaml:"global_settle"`
	TextInput      time.Duration `mapstructure:"text_input" yaml:"text_input"`
	Launch         time.Duration `mapstructure:"launch" yaml:"launch"`
	DefaultWait    time.Duration `mapstructure:"default_wait" yaml:"default_wait"`
	CompatibleIMEs []string      `mapstructure:"compatible_imes" yaml:"compatible_imes"`
	MaxSteps       int           `mapstructure:"max_steps" yaml:"max_steps"`
}

// SetDefaults registers every default value on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "taskwizard")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("device.adb_path", "adb")
	v.SetDefault("device.command_timeout", 10*time.Second)
	v.SetDefault("device.broadcast_timeout", 5*time.Second)
	v.SetDefault("device.screen_width", 1080)
	v.SetDefault("device.screen_height", 2400)

	v.SetDefault("model.provider", "openai")
	v.SetDefault("model.model", "gpt-4o")
	v.SetDefault("model.api_timeout", 60*time.Second)
	v.SetDefault("model.temperature", 0.2)
	v.SetDefault("model.max_tokens", 1024)
	v.SetDefault("model.max_attempts", 3)
	v.SetDefault("model.breaker_threshold", 5)
	v.SetDefault("model.breaker_cooldown", 30*time.Second)
	v.SetDefault("model.requests_per_min", 30)

	v.SetDefault("executor.tap_settle", time.Second)
	v.SetDefault("executor.swipe_settle", time.Second)
	v.SetDefault("executor.global_settle", time.Second)
	v.SetDefault("executor.text_input", 500*time.Millisecond)
	v.SetDefault("executor.launch", 3*time.Second)
	v.SetDefault("executor.default_wait", 2*time.Second)
	v.SetDefault("executor.max_steps", 25)
}

// Load reads configuration from the given file, falling back to
// ~/.taskwizard/config.yaml and then the working directory, and merges
// TASKWIZARD_* environment variables over it.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".taskwizard"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("TASKWIZARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars carry the day.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
