// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/proptrader/oracle-arb/internal/apperror"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Mirror    MirrorConfig    `mapstructure:"mirror"`
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Executor  ExecutorConfig  `mapstructure:"executor"`
	Signer    SignerConfig    `mapstructure:"signer"`
	Delegated DelegatedConfig `mapstructure:"delegated"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ChainConfig holds JSON-RPC node configuration.
type ChainConfig struct {
	RPCURL  string `mapstructure:"rpc_url"`
	ChainID uint64 `mapstructure:"chain_id"`
}

// MirrorConfig holds the contract/token registry (mirror node) configuration.
type MirrorConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// OracleConfig holds the oracle aggregation service and on-chain contract.
type OracleConfig struct {
	HermesBaseURL   string `mapstructure:"hermes_base_url"`
	ContractAddress string `mapstructure:"contract_address"`
}

// ContractAddressHex returns the oracle contract address as common.Address.
func (c *OracleConfig) ContractAddressHex() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// ExecutorConfig holds the guarded-swap executor contract address.
type ExecutorConfig struct {
	Address string `mapstructure:"address"`
}

// AddressHex returns the executor address as common.Address.
func (c *ExecutorConfig) AddressHex() common.Address {
	return common.HexToAddress(c.Address)
}

// SignerConfig holds the server-held signing key. The key is only ever kept
// in process memory and must never be logged.
type SignerConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

// Configured reports whether a server signer key is present.
func (c *SignerConfig) Configured() bool {
	return c.PrivateKey != ""
}

// DelegatedConfig holds the delegated-execution service settings.
type DelegatedConfig struct {
	BaseURL string `mapstructure:"base_url"`
	AppID   string `mapstructure:"app_id"`
}

// Configured reports whether the delegated path can be used.
func (c *DelegatedConfig) Configured() bool {
	return c.BaseURL != ""
}

// StrategyConfig holds the trading strategy defaults and, optionally, the
// parameters that drive the periodic runner.
type StrategyConfig struct {
	ThresholdBps   int           `mapstructure:"threshold_bps"`
	SlippageBps    int           `mapstructure:"slippage_bps"`
	BoundsBps      int           `mapstructure:"bounds_bps"`
	MaxAgeSec      uint64        `mapstructure:"max_age_sec"`
	MaxPositionPct int           `mapstructure:"max_position_pct"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	TradeLogCap    int           `mapstructure:"trade_log_cap"`

	// Runner inputs. Identifiers may be hex addresses or registry ids.
	Router    string `mapstructure:"router"`
	TokenIn   string `mapstructure:"token_in"`
	TokenOut  string `mapstructure:"token_out"`
	AmountIn  string `mapstructure:"amount_in"`
	PriceID   string `mapstructure:"price_id"`
	Recipient string `mapstructure:"recipient"`
	Path      string `mapstructure:"path"` // wallet | server | delegated
	Delegator string `mapstructure:"delegator"`
	AutoStart bool   `mapstructure:"auto_start"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Chain
	v.BindEnv("chain.rpc_url", "ARB_RPC_URL", "RPC_URL")
	v.BindEnv("chain.chain_id", "ARB_CHAIN_ID", "CHAIN_ID")

	// Mirror registry
	v.BindEnv("mirror.base_url", "ARB_MIRROR_BASE_URL", "MIRROR_BASE_URL")

	// Oracle
	v.BindEnv("oracle.hermes_base_url", "ARB_HERMES_BASE_URL", "HERMES_BASE_URL")
	v.BindEnv("oracle.contract_address", "ARB_ORACLE_ADDRESS", "PYTH_EVM_ADDRESS")

	// Executor
	v.BindEnv("executor.address", "ARB_EXECUTOR_ADDRESS", "STRATEGY_EXECUTOR_ADDRESS")

	// Signer
	v.BindEnv("signer.private_key", "ARB_SIGNER_PRIVATE_KEY", "DELEGATEE_PRIVATE_KEY")

	// Delegated execution
	v.BindEnv("delegated.base_url", "ARB_DELEGATED_BASE_URL", "DELEGATED_BASE_URL")
	v.BindEnv("delegated.app_id", "ARB_DELEGATED_APP_ID", "DELEGATED_APP_ID")

	// Strategy
	v.BindEnv("strategy.threshold_bps", "ARB_THRESHOLD_BPS")
	v.BindEnv("strategy.slippage_bps", "ARB_SLIPPAGE_BPS")
	v.BindEnv("strategy.bounds_bps", "ARB_BOUNDS_BPS")
	v.BindEnv("strategy.max_age_sec", "ARB_MAX_AGE_SEC")
	v.BindEnv("strategy.router", "ARB_ROUTER")
	v.BindEnv("strategy.token_in", "ARB_TOKEN_IN")
	v.BindEnv("strategy.token_out", "ARB_TOKEN_OUT")
	v.BindEnv("strategy.amount_in", "ARB_AMOUNT_IN")
	v.BindEnv("strategy.price_id", "ARB_PRICE_ID")
	v.BindEnv("strategy.recipient", "ARB_RECIPIENT")
	v.BindEnv("strategy.path", "ARB_EXECUTION_PATH")
	v.BindEnv("strategy.delegator", "ARB_DELEGATOR")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "oracle-arb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Chain defaults (Hedera testnet)
	v.SetDefault("chain.chain_id", 296)

	// Mirror defaults
	v.SetDefault("mirror.base_url", "https://testnet.mirrornode.hedera.com/api/v1")
	v.SetDefault("mirror.request_timeout", "5s")
	v.SetDefault("mirror.requests_per_minute", 100)

	// Oracle defaults
	v.SetDefault("oracle.hermes_base_url", "https://hermes.pyth.network")

	// Strategy defaults
	v.SetDefault("strategy.threshold_bps", 100)
	v.SetDefault("strategy.slippage_bps", 50)
	v.SetDefault("strategy.bounds_bps", 50)
	v.SetDefault("strategy.max_age_sec", 60)
	v.SetDefault("strategy.max_position_pct", 10)
	v.SetDefault("strategy.tick_interval", "20s")
	v.SetDefault("strategy.trade_log_cap", 20)
	v.SetDefault("strategy.path", "server")
	v.SetDefault("strategy.auto_start", false)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "oracle-arb")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}
	if c.Mirror.BaseURL == "" {
		return fmt.Errorf("mirror.base_url is required")
	}
	if c.Oracle.HermesBaseURL == "" {
		return fmt.Errorf("oracle.hermes_base_url is required")
	}
	if c.Oracle.ContractAddress != "" && !common.IsHexAddress(c.Oracle.ContractAddress) {
		return fmt.Errorf("invalid oracle.contract_address: %s", c.Oracle.ContractAddress)
	}
	if c.Executor.Address != "" && !common.IsHexAddress(c.Executor.Address) {
		return fmt.Errorf("invalid executor.address: %s", c.Executor.Address)
	}
	switch c.Strategy.Path {
	case "wallet", "server", "delegated":
	default:
		return fmt.Errorf("strategy.path must be wallet, server or delegated, got %q", c.Strategy.Path)
	}
	if c.Strategy.TickInterval <= 0 {
		return fmt.Errorf("strategy.tick_interval must be positive")
	}
	return nil
}

// RequireExecutor returns the executor address or a typed error when unset.
func (c *Config) RequireExecutor() (common.Address, error) {
	if c.Executor.Address == "" {
		return common.Address{}, apperror.New(apperror.CodeConfigurationMissing,
			apperror.WithContext("executor.address is not set"))
	}
	return c.Executor.AddressHex(), nil
}

// RequireOracleContract returns the oracle contract address or a typed error.
func (c *Config) RequireOracleContract() (common.Address, error) {
	if c.Oracle.ContractAddress == "" {
		return common.Address{}, apperror.New(apperror.CodeConfigurationMissing,
			apperror.WithContext("oracle.contract_address is not set"))
	}
	return c.Oracle.ContractAddressHex(), nil
}

// RequireServerSigner validates the server-signer path prerequisites.
func (c *Config) RequireServerSigner() error {
	if !c.Signer.Configured() {
		return apperror.New(apperror.CodeConfigurationMissing,
			apperror.WithContext("signer.private_key is not set; server path unavailable"))
	}
	return nil
}

// RequireDelegated validates the delegated path prerequisites.
func (c *Config) RequireDelegated() error {
	if !c.Delegated.Configured() {
		return apperror.New(apperror.CodeConfigurationMissing,
			apperror.WithContext("delegated.base_url is not set; delegated path unavailable"))
	}
	return nil
}
