// Package config loads the connection descriptor and server settings.
//
// Values come from an optional YAML file named by DBCONTACT_CONFIG_FILE and
// are then overridden by DBCONTACT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix     = "DBCONTACT_"
	configFileEnv = "DBCONTACT_CONFIG_FILE"

	defaultDataSource     = "127.0.0.1:3306"
	defaultInitialCatalog = "DBContact"
	defaultConnectTimeout = 30
	defaultHTTPAddr       = ":8080"
)

// ApplicationIntent declares whether the session may write.
type ApplicationIntent string

const (
	ReadWrite ApplicationIntent = "ReadWrite"
	ReadOnly  ApplicationIntent = "ReadOnly"
)

// Connection describes how to reach the database.
// ConnectionString, when set, is used as-is instead of the other fields.
type Connection struct {
	ConnectionString       string            `yaml:"connection_string" env:"CONNECTION_STRING"`
	DataSource             string            `yaml:"data_source" env:"DATA_SOURCE"`
	InitialCatalog         string            `yaml:"initial_catalog" env:"INITIAL_CATALOG"`
	IntegratedSecurity     bool              `yaml:"integrated_security" env:"INTEGRATED_SECURITY"`
	User                   string            `yaml:"user" env:"USER"`
	Password               string            `yaml:"password" env:"PASSWORD"`
	ConnectTimeout         int               `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"` // seconds
	Encrypt                bool              `yaml:"encrypt" env:"ENCRYPT"`
	TrustServerCertificate bool              `yaml:"trust_server_certificate" env:"TRUST_SERVER_CERTIFICATE"`
	ApplicationIntent      ApplicationIntent `yaml:"application_intent" env:"APPLICATION_INTENT"`
	MultiSubnetFailover    bool              `yaml:"multi_subnet_failover" env:"MULTI_SUBNET_FAILOVER"`
}

// Config is the runtime configuration of the server.
type Config struct {
	Connection Connection `yaml:"connection" envPrefix:"DB_"`
	HTTPAddr   string     `yaml:"http_addr" env:"HTTP_ADDR"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Connection: Connection{
			DataSource:         defaultDataSource,
			InitialCatalog:     defaultInitialCatalog,
			IntegratedSecurity: true,
			ConnectTimeout:     defaultConnectTimeout,
			ApplicationIntent:  ReadWrite,
		},
		HTTPAddr: defaultHTTPAddr,
	}
}

// Load builds the configuration from defaults, the optional file and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(configFileEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Connection.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports descriptor values the driver cannot work with.
func (c Connection) Validate() error {
	if c.ConnectionString != "" {
		return nil
	}
	if strings.TrimSpace(c.DataSource) == "" {
		return errors.New("data source is required")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %d", c.ConnectTimeout)
	}
	switch c.ApplicationIntent {
	case ReadWrite, ReadOnly, "":
	default:
		return fmt.Errorf("unknown application intent %q", c.ApplicationIntent)
	}
	if !c.IntegratedSecurity && c.User == "" {
		return errors.New("user is required without integrated security")
	}
	return nil
}

// currentUser is swapped out in tests.
var currentUser = func() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// MySQL translates the descriptor into a driver configuration.
func (c Connection) MySQL() (*mysql.Config, error) {
	if c.ConnectionString != "" {
		cfg, err := mysql.ParseDSN(c.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("parse connection string: %w", err)
		}
		// Updates report matched rows, not changed rows.
		cfg.ClientFoundRows = true
		cfg.ParseTime = true
		return cfg, nil
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	if strings.HasPrefix(c.DataSource, "/") {
		cfg.Net = "unix"
	} else if c.MultiSubnetFailover {
		cfg.Net = multiSubnetNet
	}
	cfg.Addr = c.DataSource
	cfg.DBName = c.InitialCatalog

	if c.IntegratedSecurity {
		name, err := currentUser()
		if err != nil {
			return nil, fmt.Errorf("resolve current user: %w", err)
		}
		cfg.User = name
	} else {
		cfg.User = c.User
		cfg.Passwd = c.Password
	}

	cfg.Timeout = time.Duration(c.ConnectTimeout) * time.Second
	switch {
	case !c.Encrypt:
		cfg.TLSConfig = "false"
	case c.TrustServerCertificate:
		cfg.TLSConfig = "skip-verify"
	default:
		cfg.TLSConfig = "true"
	}
	if c.ApplicationIntent == ReadOnly {
		cfg.Params = map[string]string{"transaction_read_only": "1"}
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg, nil
}

// DSN returns the data source name for sql.Open("mysql", ...).
func (c Connection) DSN() (string, error) {
	cfg, err := c.MySQL()
	if err != nil {
		return "", err
	}
	return cfg.FormatDSN(), nil
}
