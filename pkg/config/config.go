package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "PRICELIST"

type AppConfig struct {
	Environment string          `mapstructure:"environment"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	DB          DBConfig        `mapstructure:"db"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	Redis       RedisConfig     `mapstructure:"redis"`
	AMQP        AMQPConfig      `mapstructure:"amqp"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Log         LogConfig       `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogQueries      bool          `mapstructure:"log_queries"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type TelemetryConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaults = map[string]any{
	"environment":               "development",
	"http.addr":                 ":8080",
	"http.read_timeout":         15 * time.Second,
	"http.write_timeout":        15 * time.Second,
	"http.idle_timeout":         60 * time.Second,
	"http.shutdown_timeout":     10 * time.Second,
	"http.allowed_origins":      []string{"*"},
	"db.driver":                 DriverSQLite,
	"db.dsn":                    "pricelist.db",
	"db.max_open_conns":         25,
	"db.max_idle_conns":         5,
	"db.conn_max_lifetime":      5 * time.Minute,
	"db.log_queries":            false,
	"db.migrations_path":        "db/migrations",
	"jwt.secret":                "",
	"jwt.issuer":                "pricelist",
	"jwt.ttl":                   24 * time.Hour,
	"redis.addr":                "",
	"redis.password":            "",
	"redis.db":                  0,
	"redis.ttl":                 5 * time.Minute,
	"amqp.url":                  "",
	"amqp.exchange":             "pricelist.catalog",
	"telemetry.service_name":    "pricelist",
	"telemetry.service_version": "1.0.0",
	"telemetry.otlp_endpoint":   "",
	"log.level":                 "info",
	"log.format":                "json",
	"log.file":                  "",
}

// Load reads an optional YAML file then applies PRICELIST_* environment
// overrides, e.g. PRICELIST_JWT_SECRET or PRICELIST_DB_DSN. A .env file in the
// working directory is loaded first when present.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg AppConfig

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}

	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("db.driver %q is not supported", c.DB.Driver))
	}

	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}

	return errors.Join(errs...)
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
