package constants

// Fee capture
const (
	// FeeTransferLamports is the amount moved to a caller supplied fee account
	// at the end of a swap transaction.
	FeeTransferLamports uint64 = 2_000_000
)

// Swap modes understood by the aggregator
const (
	SwapModeExactIn  = "ExactIn"
	SwapModeExactOut = "ExactOut"
)

// Redis keys
const (
	RedisKeyRecentExecutions = "executions:recent"
)

// Redis Pub/Sub channels
const (
	PubSubChannelExecutions = "executions:live"
)

// Limits
const (
	MaxRecentExecutions = 100
)

// Execution kinds recorded in the journal
const (
	ExecutionKindSwap        = "swap"
	ExecutionKindLimitOpen   = "limit_open"
	ExecutionKindLimitCancel = "limit_cancel"
)

// Token mint addresses to symbols
var TokenSymbols = map[string]string{
	"So11111111111111111111111111111111111111112":  "SOL",
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": "USDC",
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": "USDT",
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  "mSOL",
	"7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs": "ETH",
	"3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh": "BTC",
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": "BONK",
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  "JUP",
	"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": "RAY",
}

// TokenDecimals maps token symbols to their decimal places
var TokenDecimals = map[string]uint8{
	"SOL":  9,
	"USDC": 6,
	"USDT": 6,
	"mSOL": 9,
	"ETH":  8,
	"BTC":  8,
	"BONK": 5,
	"JUP":  6,
	"RAY":  6,
}
