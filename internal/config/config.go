package config

import (
	"time"
	_ "time/tzdata"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/clinic-whatsapp/pkg/logger"
	"github.com/nimasrn/clinic-whatsapp/pkg/pg"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every setting of the service. Nothing else reads the
// environment directly.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=dev"`
	AppName             string `env:"APP_NAME,default=clinic_whatsapp"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI,default=/metrics"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT,default=5432"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT,default=5432"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=clinic:"`

	PromNamespace string `env:"PROM_NAMESPACE,default=clinic"`

	ClinicName       string        `env:"CLINIC_NAME"`
	ClinicTimezone   string        `env:"CLINIC_TIMEZONE,default=America/Sao_Paulo"`
	WhatsAppBaseURL  string        `env:"WHATSAPP_BASE_URL,default=https://wa.me"`
	ClickGuardTTL    time.Duration `env:"CLICK_GUARD_TTL,default=10s"`
	HistoryPageLimit int           `env:"HISTORY_PAGE_LIMIT,default=200"`
}

// Load reads path (a .env file) when given, then maps the environment onto
// Config.
func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}
	if err := c.validate(); err != nil {
		return err
	}

	config = c
	return nil
}

func (c *Config) validate() error {
	if c.PostgresWriteHost == "" {
		return errors.New("POSTGRES_WRITE_HOST is required")
	}
	if c.ClickGuardTTL <= 0 {
		return errors.New("CLICK_GUARD_TTL must be > 0")
	}
	if c.HistoryPageLimit <= 0 {
		return errors.New("HISTORY_PAGE_LIMIT must be > 0")
	}
	if _, err := time.LoadLocation(c.ClinicTimezone); err != nil {
		return errors.Wrapf(err, "invalid CLINIC_TIMEZONE %q", c.ClinicTimezone)
	}
	return nil
}

// Location is the clinic timezone used to print appointment dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReadDB falls back to the write database when no replica is configured.
func (c *Config) ReadDB() pg.Config {
	if c.PostgresReadHost == "" {
		return c.WriteDB()
	}
	return pg.Config{
		User:     c.PostgresReadUser,
		Host:     c.PostgresReadHost,
		Port:     c.PostgresReadPort,
		Password: c.PostgresReadPassword,
		Database: c.PostgresReadDatabase,
	}
}

func (c *Config) WriteDB() pg.Config {
	return pg.Config{
		User:     c.PostgresWriteUser,
		Host:     c.PostgresWriteHost,
		Port:     c.PostgresWritePort,
		Password: c.PostgresWritePassword,
		Database: c.PostgresWriteDatabase,
	}
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
