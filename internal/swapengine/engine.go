package swapengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/storage"
	"github.com/aman-zulfiqar/jupiter-solana/internal/txcodec"
	"github.com/aman-zulfiqar/jupiter-solana/internal/wallet"
)

// DefaultSlippageBps applies when a swap request sets no slippage.
const DefaultSlippageBps uint16 = 50

// ErrNoSigner is returned by operations that need the wallet when the engine
// was built without one.
var ErrNoSigner = errors.New("engine has no signer configured")

// ErrNoJournal is returned by SubscribeExecutions without a cache.
var ErrNoJournal = errors.New("execution journal is not configured")

// Aggregator is the part of the Jupiter API the engine drives.
type Aggregator interface {
	Quote(ctx context.Context, req jupiter.QuoteRequest) (*jupiter.QuoteResponse, error)
	SwapTransaction(ctx context.Context, req jupiter.SwapTransactionRequest) (*jupiter.SwapTransactionResponse, error)
	CreateOrder(ctx context.Context, req jupiter.CreateOrderRequest) (*jupiter.CreateOrderResponse, error)
	CancelOrders(ctx context.Context, req jupiter.CancelOrdersRequest) (string, error)
	OpenOrders(ctx context.Context, wallet, inputMint, outputMint string) ([]jupiter.Order, error)
	OrderHistory(ctx context.Context, req jupiter.HistoryRequest) ([]jupiter.HistoryOrder, error)
	TradeHistory(ctx context.Context, req jupiter.HistoryRequest) ([]jupiter.Trade, error)
}

// Submitter hands signed transactions to the ledger.
type Submitter interface {
	Submit(ctx context.Context, signed *txcodec.SignedTransaction) (solana.Signature, error)
}

// KeypairFactory creates the one-off base keypair of a limit order.
type KeypairFactory func() (txcodec.Signer, error)

// Engine is the main orchestrator for swaps and limit orders. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	aggregator Aggregator
	signer     txcodec.Signer
	submitter  Submitter
	cache      storage.ExecutionCache
	store      storage.ExecutionStore
	ephemeral  KeypairFactory
	logger     *logrus.Logger

	wrapAndUnwrapSol bool
	now              func() time.Time
}

// EngineConfig holds the engine dependencies. Signer and Submitter may be
// nil for an engine that only quotes and reads orders.
type EngineConfig struct {
	Aggregator Aggregator
	Signer     txcodec.Signer
	Submitter  Submitter

	// Optional execution journal
	Cache storage.ExecutionCache
	Store storage.ExecutionStore

	// Ephemeral defaults to wallet.NewEphemeralKeypair
	Ephemeral KeypairFactory

	// DisableWrapAndUnwrapSol stops the aggregator from wrapping native SOL
	// around swaps unless a request asks for it
	DisableWrapAndUnwrapSol bool

	Logger *logrus.Logger
}

// NewEngine creates an engine from its dependencies
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Aggregator == nil {
		return nil, fmt.Errorf("aggregator is required")
	}
	if cfg.Signer != nil && cfg.Submitter == nil {
		return nil, fmt.Errorf("submitter is required when a signer is configured")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Ephemeral == nil {
		cfg.Ephemeral = func() (txcodec.Signer, error) {
			return wallet.NewEphemeralKeypair()
		}
	}

	return &Engine{
		aggregator:       cfg.Aggregator,
		signer:           cfg.Signer,
		submitter:        cfg.Submitter,
		cache:            cfg.Cache,
		store:            cfg.Store,
		ephemeral:        cfg.Ephemeral,
		logger:           cfg.Logger,
		wrapAndUnwrapSol: !cfg.DisableWrapAndUnwrapSol,
		now:              time.Now,
	}, nil
}

// Wallet returns the signer's public key, or the zero key for a keyless engine.
func (e *Engine) Wallet() solana.PublicKey {
	if e.signer == nil {
		return solana.PublicKey{}
	}
	return e.signer.PublicKey()
}

// CanSign reports whether the engine can execute transactions.
func (e *Engine) CanSign() bool { return e.signer != nil }

// Quote fetches a quote without building a transaction.
func (e *Engine) Quote(ctx context.Context, req jupiter.QuoteRequest) (*jupiter.QuoteResponse, error) {
	return e.aggregator.Quote(ctx, req)
}

// Close releases the execution journal backends
func (e *Engine) Close() error {
	var err error
	if e.cache != nil {
		err = multierr.Append(err, e.cache.Close())
	}
	if e.store != nil {
		err = multierr.Append(err, e.store.Close())
	}
	return err
}

func (e *Engine) requireSigner() error {
	if e.signer == nil {
		return ErrNoSigner
	}
	return nil
}
