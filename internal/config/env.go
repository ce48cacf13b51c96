package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	DBPath            string        `envconfig:"DB_PATH" default:"wallet.db"`
	StarknetRPCURL    string        `envconfig:"STARKNET_RPC_URL" default:"https://starknet-mainnet.public.blastapi.io"`
	FeederGatewayURL  string        `envconfig:"FEEDER_GATEWAY_URL" default:"https://alpha-mainnet.starknet.io"`
	WalletBackendURL  string        `envconfig:"WALLET_BACKEND_URL" default:"https://starknet-mainnet.public.blastapi.io"`
	ChainID           string        `envconfig:"CHAIN_ID" default:"SN_MAIN"`
	RecoveryPublicKey string        `envconfig:"RECOVERY_PUBLIC_KEY" required:"true"`
	DecryptTimeout    time.Duration `envconfig:"DECRYPT_TIMEOUT" default:"30s"`
	InjectDelay       time.Duration `envconfig:"INJECT_DELAY" default:"1s"`
	GlobalNames       []string      `envconfig:"GLOBAL_NAMES" default:"starknet,starknet_marketplace"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if len(c.GlobalNames) != 2 {
		return fmt.Errorf("GLOBAL_NAMES must list exactly two names, got %d", len(c.GlobalNames))
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetDBPath returns path to the SQLite database
func GetDBPath() string {
	return Get().DBPath
}

// GetStarknetRPCURL returns Starknet JSON-RPC URL from configuration
func GetStarknetRPCURL() string {
	return Get().StarknetRPCURL
}

// GetFeederGatewayURL returns feeder gateway base URL
func GetFeederGatewayURL() string {
	return Get().FeederGatewayURL
}

// GetWalletBackendURL returns the endpoint the injected provider talks to
func GetWalletBackendURL() string {
	return Get().WalletBackendURL
}

// GetChainID returns chain id short string (SN_MAIN, SN_GOERLI)
func GetChainID() string {
	return Get().ChainID
}

// GetRecoveryPublicKey returns hex X25519 recovery public key
func GetRecoveryPublicKey() string {
	return Get().RecoveryPublicKey
}

// ReadPassword prompts for a password in the terminal without echoing it.
// Caller must zero the returned slice after use.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the tool interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}
