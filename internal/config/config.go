package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// maxNumberPrefixLen keeps PREFIX-YYYYMMDD-XXXXXXXXXX within the 40 character
// order_number column.
const maxNumberPrefixLen = 20

var numberPrefixPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Order    OrderConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type OrderConfig struct {
	NumberPrefix          string
	MaxAttempts           int
	TxTimeout             time.Duration
	StrictTransitions     bool
	AcceptClientShipping  bool
	DefaultShippingCost   decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	Location              *time.Location
}

type CacheConfig struct {
	StatsTTL        time.Duration
	CleanupInterval time.Duration
}

// Load reads the YAML file at path (a missing file is not an error) and applies
// environment overrides such as DB_HOST or ORDER_MAX_ATTEMPTS on top of it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	shippingCost, err := decimal.NewFromString(v.GetString("order.default_shipping_cost"))
	if err != nil {
		return nil, fmt.Errorf("parsing order.default_shipping_cost: %w", err)
	}

	freeShipping, err := decimal.NewFromString(v.GetString("order.free_shipping_threshold"))
	if err != nil {
		return nil, fmt.Errorf("parsing order.free_shipping_threshold: %w", err)
	}

	loc, err := time.LoadLocation(v.GetString("order.timezone"))
	if err != nil {
		return nil, fmt.Errorf("loading order.timezone: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Order: OrderConfig{
			NumberPrefix:          strings.ToUpper(v.GetString("order.number_prefix")),
			MaxAttempts:           v.GetInt("order.max_attempts"),
			TxTimeout:             v.GetDuration("order.tx_timeout"),
			StrictTransitions:     v.GetBool("order.strict_transitions"),
			AcceptClientShipping:  v.GetBool("order.accept_client_shipping"),
			DefaultShippingCost:   shippingCost,
			FreeShippingThreshold: freeShipping,
			Location:              loc,
		},
		Cache: CacheConfig{
			StatsTTL:        v.GetDuration("cache.stats_ttl"),
			CleanupInterval: v.GetDuration("cache.cleanup_interval"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "rayon")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.name", "rayon")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("order.number_prefix", "RAY")
	v.SetDefault("order.max_attempts", 5)
	v.SetDefault("order.tx_timeout", "5s")
	v.SetDefault("order.strict_transitions", false)
	v.SetDefault("order.accept_client_shipping", false)
	v.SetDefault("order.default_shipping_cost", "0")
	v.SetDefault("order.free_shipping_threshold", "0")
	v.SetDefault("order.timezone", "UTC")

	v.SetDefault("cache.stats_ttl", "5m")
	v.SetDefault("cache.cleanup_interval", "10m")
}

// bindLegacyEnv keeps the short variable names used by the deployment scripts.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.max_open_conns", "DB_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.max_idle_conns", "DB_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.conn_max_lifetime", "DB_CONN_MAX_LIFETIME")
}

func (c *Config) validate() error {
	if c.Order.MaxAttempts < 1 {
		return fmt.Errorf("order.max_attempts must be at least 1, got %d", c.Order.MaxAttempts)
	}
	if c.Order.NumberPrefix == "" {
		return errors.New("order.number_prefix must not be empty")
	}
	if len(c.Order.NumberPrefix) > maxNumberPrefixLen {
		return fmt.Errorf("order.number_prefix must not exceed %d characters, got %q", maxNumberPrefixLen, c.Order.NumberPrefix)
	}
	if !numberPrefixPattern.MatchString(c.Order.NumberPrefix) {
		return fmt.Errorf("order.number_prefix must contain only letters and digits, got %q", c.Order.NumberPrefix)
	}
	if c.Order.DefaultShippingCost.IsNegative() || c.Order.FreeShippingThreshold.IsNegative() {
		return errors.New("order shipping amounts must not be negative")
	}
	return nil
}
