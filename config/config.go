// Package config loads service settings from the environment, an optional
// .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/trig"
)

const envPrefix = "HEXTRIG"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Database DatabaseConfig
	Watson   WatsonConfig
	Modulus  int64
	HTTPAddr string
	LogLevel string
}

type DatabaseConfig struct {
	Driver      string
	DSN         string
	User        string
	Password    string
	Target      string
	Procedure   string
	AutoMigrate bool
}

type WatsonConfig struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// Configured reports whether both credentials needed to call Watson are present.
func (w WatsonConfig) Configured() bool {
	return strings.TrimSpace(w.APIKey) != "" && strings.TrimSpace(w.URL) != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.target", "trig_records.db")
	v.SetDefault("db.procedure", "sp_confirm_record")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("watson.apikey", "")
	v.SetDefault("watson.url", "")
	v.SetDefault("watson.timeout", 10*time.Second)
	v.SetDefault("angle.modulus", trig.DefaultModulus)
	v.SetDefault("http.addr", ":8090")
	v.SetDefault("log.level", "info")
}

// Load reads configuration. Environment variables use the HEXTRIG_ prefix with
// dots replaced by underscores, e.g. HEXTRIG_DB_DRIVER or HEXTRIG_WATSON_APIKEY.
// A .env file (or HEXTRIG_ENV_FILE) is loaded first when present, and
// HEXTRIG_CONFIG_FILE may point to a toml/yaml/json file.
func Load() (Config, error) {
	envFile := os.Getenv(envPrefix + "_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := os.Getenv(envPrefix + "_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Database: DatabaseConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
			DSN:         v.GetString("db.dsn"),
			User:        v.GetString("db.user"),
			Password:    v.GetString("db.password"),
			Target:      v.GetString("db.target"),
			Procedure:   v.GetString("db.procedure"),
			AutoMigrate: v.GetBool("db.auto_migrate"),
		},
		Watson: WatsonConfig{
			APIKey:  v.GetString("watson.apikey"),
			URL:     v.GetString("watson.url"),
			Timeout: v.GetDuration("watson.timeout"),
		},
		Modulus:  v.GetInt64("angle.modulus"),
		HTTPAddr: v.GetString("http.addr"),
		LogLevel: v.GetString("log.level"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that must hold for the service to start. Missing
// Watson credentials are allowed; they only matter when confirmation is requested.
func (c Config) Validate() error {
	const op = "validate config"
	if c.Modulus <= 0 {
		return apperr.Newf(apperr.KindInvalidConfiguration, op, "angle modulus must be positive, got %d", c.Modulus)
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return apperr.Newf(apperr.KindInvalidConfiguration, op, "unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" && c.Database.Target == "" {
		return apperr.New(apperr.KindInvalidConfiguration, op, "database target or dsn required")
	}
	if c.Watson.Timeout <= 0 {
		return apperr.Newf(apperr.KindInvalidConfiguration, op, "watson timeout must be positive, got %s", c.Watson.Timeout)
	}
	return nil
}

// ConnectionString builds the driver DSN from user, password and target
// unless an explicit DSN was configured.
func (d DatabaseConfig) ConnectionString() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver != DriverPostgres {
		return d.Target
	}
	u := url.URL{Scheme: "postgres", Host: d.Target}
	if host, path, ok := strings.Cut(d.Target, "/"); ok {
		u.Host = host
		u.Path = "/" + path
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	return u.String()
}
