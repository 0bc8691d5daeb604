package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/artivio/artivio-chain/internal/domain"
)

const (
	MirrorDriverPostgres  = "postgres"
	MirrorDriverFirestore = "firestore"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // e.g. "5m", "1h"
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // e.g. "10m", "30m"
}

// NATSConfig holds NATS JetStream configuration. An empty URL disables event publishing.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// EthereumConfig holds the ledger connection and operator key
type EthereumConfig struct {
	RPCURL             string        `mapstructure:"rpc_url"`
	ChainID            int64         `mapstructure:"chain_id"`
	ContractAddress    string        `mapstructure:"contract_address"`
	PrivateKey         string        `mapstructure:"private_key"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	GasLimitMultiplier float64       `mapstructure:"gas_limit_multiplier"`
}

// MintingConfig holds minting service settings
type MintingConfig struct {
	DefaultRoyaltyBps   int           `mapstructure:"default_royalty_bps"`
	ConfirmationTimeout time.Duration `mapstructure:"confirmation_timeout"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout"`

	// RoyaltyReferenceSale is a decimal amount in base units used to recover royalty basis points
	RoyaltyReferenceSale string `mapstructure:"royalty_reference_sale"`

	// LicensePolicy is either overwrite or immutable
	LicensePolicy string `mapstructure:"license_policy"`
}

// MirrorConfig selects the off-chain mirror backend
type MirrorConfig struct {
	Driver               string `mapstructure:"driver"`
	FirestoreProjectID   string `mapstructure:"firestore_project_id"`
	CredentialsFile      string `mapstructure:"credentials_file"`
	TokensCollection     string `mapstructure:"tokens_collection"`
	ProvenanceCollection string `mapstructure:"provenance_collection"`
}

// PinataConfig holds the pinning service credentials
type PinataConfig struct {
	JWT         string        `mapstructure:"jwt"`
	APIURL      string        `mapstructure:"api_url"`
	GatewayURL  string        `mapstructure:"gateway_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	BasePath     string `mapstructure:"base_path"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	// CORSAllowedOrigins restricts browser origins; empty allows all
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// AuthConfig holds authentication configuration for mutating endpoints
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// Enabled reports whether any credential is configured
func (c AuthConfig) Enabled() bool {
	if c.JWTPublicKey != "" {
		return true
	}
	for _, key := range c.APIKeys {
		if key != "" {
			return true
		}
	}
	return false
}

// RedisConfig holds the redis connection used by the rate limiter
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig limits requests per client on mutating endpoints
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// MirrorSyncSettings holds the reconciler settings
type MirrorSyncSettings struct {
	BatchSize int           `mapstructure:"batch_size"`
	Interval  time.Duration `mapstructure:"interval"`
	Worker    WorkerConfig  `mapstructure:"worker"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Ethereum   EthereumConfig  `mapstructure:"ethereum"`
	Minting    MintingConfig   `mapstructure:"minting"`
	Mirror     MirrorConfig    `mapstructure:"mirror"`
	Pinata     PinataConfig    `mapstructure:"pinata"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Redis      RedisConfig     `mapstructure:"redis"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Auth       AuthConfig      `mapstructure:"auth"`
}

// MirrorSyncConfig holds configuration for the mirror-sync program
type MirrorSyncConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig     `mapstructure:"database"`
	Ethereum   EthereumConfig     `mapstructure:"ethereum"`
	Mirror     MirrorConfig       `mapstructure:"mirror"`
	MirrorSync MirrorSyncSettings `mapstructure:"mirror_sync"`
}

// WalletToolConfig holds configuration for the wallet-tool program
type WalletToolConfig struct {
	BaseConfig `mapstructure:",squash"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("ethereum.chain_id", 80002)
	v.SetDefault("ethereum.poll_interval", "2s")
	v.SetDefault("ethereum.gas_limit_multiplier", 1.2)
	v.SetDefault("mirror.driver", MirrorDriverPostgres)
	v.SetDefault("mirror.tokens_collection", domain.DEFAULT_TOKENS_COLLECTION)
	v.SetDefault("mirror.provenance_collection", domain.DEFAULT_PROVENANCE_COLLECTION)
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	setCommonDefaults(v)
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 180)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("minting.default_royalty_bps", domain.DEFAULT_ROYALTY_BPS)
	v.SetDefault("minting.confirmation_timeout", "2m")
	v.SetDefault("minting.read_timeout", "30s")
	v.SetDefault("minting.royalty_reference_sale", "1000000000000000000")
	v.SetDefault("minting.license_policy", domain.LICENSE_POLICY_OVERWRITE)
	v.SetDefault("pinata.api_url", domain.DEFAULT_PINATA_API_URL)
	v.SetDefault("pinata.gateway_url", domain.DEFAULT_PINATA_GATEWAY_URL)
	v.SetDefault("pinata.http_timeout", "60s")
	v.SetDefault("nats.stream_name", "ARTIVIO_TOKENS")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "artivio-api")
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 10)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate checks the settings the API cannot start without
func (c *APIConfig) Validate() error {
	if err := c.Ethereum.validateLedger(); err != nil {
		return err
	}
	if err := c.Mirror.validate(&c.Database); err != nil {
		return err
	}
	if c.Minting.DefaultRoyaltyBps < 0 || c.Minting.DefaultRoyaltyBps > domain.MAX_ROYALTY_BPS {
		return fmt.Errorf("minting.default_royalty_bps must be within [0, %d]", domain.MAX_ROYALTY_BPS)
	}
	switch c.Minting.LicensePolicy {
	case domain.LICENSE_POLICY_OVERWRITE, domain.LICENSE_POLICY_IMMUTABLE:
	default:
		return fmt.Errorf("minting.license_policy must be %s or %s", domain.LICENSE_POLICY_OVERWRITE, domain.LICENSE_POLICY_IMMUTABLE)
	}
	if _, err := c.Minting.ReferenceSale(); err != nil {
		return err
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("rate_limit.requests_per_minute must be positive")
	}
	return nil
}

// ReferenceSale parses the royalty reference sale amount
func (c MintingConfig) ReferenceSale() (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(c.RoyaltyReferenceSale), 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("minting.royalty_reference_sale must be a positive integer, got %q", c.RoyaltyReferenceSale)
	}
	return amount, nil
}

// LoadMirrorSyncConfig loads configuration for the mirror-sync program
func LoadMirrorSyncConfig(configFile string, envPath string) (*MirrorSyncConfig, error) {
	v := configureViper("mirror-sync", configFile, envPath)

	// Set defaults
	setCommonDefaults(v)
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("mirror_sync.batch_size", 100)
	v.SetDefault("mirror_sync.interval", "10m")
	v.SetDefault("mirror_sync.worker.pool_size", 10)
	v.SetDefault("mirror_sync.worker.queue_size", 100)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg MirrorSyncConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Ethereum.RPCURL == "" {
		return nil, errors.New("ethereum.rpc_url is required")
	}
	if cfg.Ethereum.ContractAddress == "" {
		return nil, errors.New("ethereum.contract_address is required")
	}
	if err := cfg.Mirror.validate(&cfg.Database); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWalletToolConfig loads configuration for the wallet-tool program
func LoadWalletToolConfig(configFile string, envPath string) (*WalletToolConfig, error) {
	v := configureViper("wallet-tool", configFile, envPath)
	setCommonDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg WalletToolConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c EthereumConfig) validateLedger() error {
	if c.RPCURL == "" {
		return errors.New("ethereum.rpc_url is required")
	}
	if c.ContractAddress == "" {
		return errors.New("ethereum.contract_address is required")
	}
	if c.PrivateKey == "" {
		return errors.New("ethereum.private_key is required")
	}
	return nil
}

func (c MirrorConfig) validate(db *DatabaseConfig) error {
	switch c.Driver {
	case MirrorDriverPostgres:
		if db.Host == "" {
			return errors.New("database.host is required")
		}
		if db.DBName == "" {
			return errors.New("database.dbname is required")
		}
	case MirrorDriverFirestore:
		if c.FirestoreProjectID == "" {
			return errors.New("mirror.firestore_project_id is required")
		}
	default:
		return fmt.Errorf("unsupported mirror.driver %q", c.Driver)
	}
	return nil
}

// readConfig reads the config file; a missing file leaves environment variables as the only source
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("ARTIVIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.contract_address",
		"ethereum.private_key",
		"ethereum.poll_interval",
		"ethereum.gas_limit_multiplier",
		// Minting
		"minting.default_royalty_bps",
		"minting.confirmation_timeout",
		"minting.read_timeout",
		"minting.royalty_reference_sale",
		"minting.license_policy",
		// Mirror
		"mirror.driver",
		"mirror.firestore_project_id",
		"mirror.credentials_file",
		"mirror.tokens_collection",
		"mirror.provenance_collection",
		// Pinata
		"pinata.jwt",
		"pinata.api_url",
		"pinata.gateway_url",
		"pinata.http_timeout",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.base_path",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Rate limiting
		"redis.addr",
		"redis.password",
		"redis.db",
		"rate_limit.enabled",
		"rate_limit.requests_per_minute",
		"rate_limit.burst",
		// Mirror sync
		"mirror_sync.batch_size",
		"mirror_sync.interval",
		"mirror_sync.worker.pool_size",
		"mirror_sync.worker.queue_size",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
