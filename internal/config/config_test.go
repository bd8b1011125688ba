package config

import (
	"strings"
	"testing"
	"time"

	"github.com/proptrader/oracle-arb/internal/apperror"
)

func validConfig() *Config {
	return &Config{
		Chain: ChainConfig{RPCURL: "https://testnet.hashio.io/api", ChainID: 296},
		Mirror: MirrorConfig{
			BaseURL:           "https://testnet.mirrornode.hedera.com/api/v1",
			RequestTimeout:    5 * time.Second,
			RequestsPerMinute: 100,
		},
		Oracle: OracleConfig{
			HermesBaseURL:   "https://hermes.pyth.network",
			ContractAddress: "0xA2aa501b19aff244D90cc15a4Cf739D2725B5729",
		},
		Strategy: StrategyConfig{Path: "wallet", TickInterval: 20 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing rpc url",
			mutate:  func(c *Config) { c.Chain.RPCURL = "" },
			wantErr: "chain.rpc_url",
		},
		{
			name:    "missing mirror url",
			mutate:  func(c *Config) { c.Mirror.BaseURL = "" },
			wantErr: "mirror.base_url",
		},
		{
			name:    "missing hermes url",
			mutate:  func(c *Config) { c.Oracle.HermesBaseURL = "" },
			wantErr: "oracle.hermes_base_url",
		},
		{
			name:    "malformed oracle contract",
			mutate:  func(c *Config) { c.Oracle.ContractAddress = "0xnotanaddress" },
			wantErr: "oracle.contract_address",
		},
		{
			name:   "unset oracle contract passes shape check",
			mutate: func(c *Config) { c.Oracle.ContractAddress = "" },
		},
		{
			name:    "unknown path",
			mutate:  func(c *Config) { c.Strategy.Path = "courier" },
			wantErr: "strategy.path",
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *Config) { c.Strategy.TickInterval = 0 },
			wantErr: "strategy.tick_interval",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireOracleContract(t *testing.T) {
	cfg := validConfig()

	addr, err := cfg.RequireOracleContract()
	if err != nil {
		t.Fatalf("RequireOracleContract: %v", err)
	}
	if addr != cfg.Oracle.ContractAddressHex() {
		t.Errorf("address = %s, want %s", addr.Hex(), cfg.Oracle.ContractAddress)
	}

	cfg.Oracle.ContractAddress = ""
	_, err = cfg.RequireOracleContract()
	if !apperror.IsCode(err, apperror.CodeConfigurationMissing) {
		t.Errorf("err = %v, want code %s", err, apperror.CodeConfigurationMissing)
	}
}

func TestRequireExecutor(t *testing.T) {
	cfg := validConfig()
	_, err := cfg.RequireExecutor()
	if !apperror.IsCode(err, apperror.CodeConfigurationMissing) {
		t.Errorf("err = %v, want code %s", err, apperror.CodeConfigurationMissing)
	}

	cfg.Executor.Address = "0x000000000000000000000000000000000049a7e9"
	if _, err := cfg.RequireExecutor(); err != nil {
		t.Errorf("RequireExecutor: %v", err)
	}
}

func TestRequirePathPrerequisites(t *testing.T) {
	cfg := validConfig()

	if err := cfg.RequireServerSigner(); !apperror.IsCode(err, apperror.CodeConfigurationMissing) {
		t.Errorf("RequireServerSigner err = %v, want code %s", err, apperror.CodeConfigurationMissing)
	}
	cfg.Signer.PrivateKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	if err := cfg.RequireServerSigner(); err != nil {
		t.Errorf("RequireServerSigner: %v", err)
	}

	if err := cfg.RequireDelegated(); !apperror.IsCode(err, apperror.CodeConfigurationMissing) {
		t.Errorf("RequireDelegated err = %v, want code %s", err, apperror.CodeConfigurationMissing)
	}
	cfg.Delegated.BaseURL = "https://delegate.example.com"
	if err := cfg.RequireDelegated(); err != nil {
		t.Errorf("RequireDelegated: %v", err)
	}
}
