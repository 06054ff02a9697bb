package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "REMINDD"

type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	Path       string `mapstructure:"path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type SchedulerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	EventBuffer  int           `mapstructure:"event_buffer"`
}

type AlertsConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Expire  time.Duration `mapstructure:"expire"`
}

type EmailConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	From        string        `mapstructure:"from"`
	FromName    string        `mapstructure:"from_name"`
	To          string        `mapstructure:"to"`
	ImplicitTLS bool          `mapstructure:"implicit_tls"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UseKeyring  bool          `mapstructure:"use_keyring"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Email     EmailConfig     `mapstructure:"email"`
	Log       LogConfig       `mapstructure:"log"`
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "remindd", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "tasks.txt")
	v.SetDefault("storage.sqlite_path", "remindd.db")
	v.SetDefault("scheduler.tick_interval", time.Minute)
	v.SetDefault("scheduler.event_buffer", 64)
	v.SetDefault("alerts.enabled", true)
	v.SetDefault("alerts.expire", 10*time.Minute)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "")
	v.SetDefault("email.from_name", "Task Reminder")
	v.SetDefault("email.to", "")
	v.SetDefault("email.implicit_tls", false)
	v.SetDefault("email.timeout", 30*time.Second)
	v.SetDefault("email.use_keyring", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "remindd.log")
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	cfg, _ := decode(newViper())
	return cfg
}

// Load reads path (YAML) and REMINDD_* environment overrides. A missing
// file is not an error.
func Load(path string) (Config, error) {
	v := newViper()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *os.PathError
			if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Scheduler.TickInterval <= 0 {
		return errors.New("config: scheduler.tick_interval must be positive")
	}
	if c.Email.Enabled {
		if c.Email.Host == "" || c.Email.Port <= 0 {
			return errors.New("config: email.host and email.port are required when email is enabled")
		}
		if c.Email.From == "" || c.Email.To == "" {
			return errors.New("config: email.from and email.to are required when email is enabled")
		}
	}
	return nil
}
