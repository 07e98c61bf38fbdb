package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
)

type Config struct {
	// RPC settings
	RPCUrl              string
	RPCTimeout          time.Duration
	MaxRetries          int
	RetryBackoff        time.Duration
	LedgerDriver        string
	SkipPreflight       bool
	PreflightCommitment string
	// SendMaxRetries is the node-side rebroadcast count; negative leaves the node default
	SendMaxRetries int

	// Wallet, base58 secret key. Empty runs the client keyless
	WalletPrivateKey string

	// Jupiter settings
	JupiterAPIKey    string
	JupiterEndpoints map[jupiter.Operation]string
	JupiterRateLimit float64
	JupiterRateBurst int
	HTTPTimeout      time.Duration
	WrapAndUnwrapSol bool

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// API settings
	APIAddr string
	APIKey  string
	DevMode bool

	LogLevel string
}

// endpointEnv maps each aggregator operation to its override variable.
var endpointEnv = map[jupiter.Operation]string{
	jupiter.OpQuote:             "JUPITER_QUOTE_URL",
	jupiter.OpSwap:              "JUPITER_SWAP_URL",
	jupiter.OpOpenOrder:         "JUPITER_OPEN_ORDER_URL",
	jupiter.OpCancelOrders:      "JUPITER_CANCEL_ORDERS_URL",
	jupiter.OpQueryOpenOrders:   "JUPITER_OPEN_ORDERS_URL",
	jupiter.OpQueryOrderHistory: "JUPITER_ORDER_HISTORY_URL",
	jupiter.OpQueryTradeHistory: "JUPITER_TRADE_HISTORY_URL",
}

func Load() *Config {
	endpoints := make(map[jupiter.Operation]string)
	for op, key := range endpointEnv {
		if v := getEnv(key, ""); v != "" {
			endpoints[op] = v
		}
	}

	return &Config{
		// RPC
		RPCUrl:              getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		RPCTimeout:          getDurationEnv("RPC_TIMEOUT", 30*time.Second),
		MaxRetries:          getIntEnv("MAX_RETRIES", 3),
		RetryBackoff:        getDurationEnv("RETRY_BACKOFF", time.Second),
		LedgerDriver:        getEnv("LEDGER_DRIVER", "native"),
		SkipPreflight:       getBoolEnv("SKIP_PREFLIGHT", false),
		PreflightCommitment: getEnv("PREFLIGHT_COMMITMENT", "confirmed"),
		SendMaxRetries:      getIntEnv("SEND_MAX_RETRIES", -1),

		// Wallet
		WalletPrivateKey: getEnv("WALLET_PRIVATE_KEY", ""),

		// Jupiter
		JupiterAPIKey:    getEnv("JUPITER_API_KEY", ""),
		JupiterEndpoints: endpoints,
		JupiterRateLimit: getFloatEnv("JUPITER_RATE_LIMIT", 0),
		JupiterRateBurst: getIntEnv("JUPITER_RATE_BURST", 1),
		HTTPTimeout:      getDurationEnv("HTTP_TIMEOUT", 12*time.Second),
		WrapAndUnwrapSol: getBoolEnv("WRAP_AND_UNWRAP_SOL", true),

		// Redis, empty disables the journal cache and switches
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// ClickHouse, empty disables execution history
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solana"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the values Load cannot default sensibly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCUrl) == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}
	switch c.LedgerDriver {
	case "native", "solana-go":
	default:
		return fmt.Errorf("LEDGER_DRIVER must be native or solana-go, got %q", c.LedgerDriver)
	}
	switch c.PreflightCommitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("PREFLIGHT_COMMITMENT must be processed, confirmed or finalized, got %q", c.PreflightCommitment)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative")
	}
	if c.JupiterRateLimit < 0 {
		return fmt.Errorf("JUPITER_RATE_LIMIT must not be negative")
	}
	if _, err := jupiter.NewEndpoints(c.JupiterEndpoints); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
