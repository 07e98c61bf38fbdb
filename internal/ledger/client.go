// Package ledger submits signed transactions to a Solana RPC node.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	nativerpc "github.com/aman-zulfiqar/jupiter-solana/internal/rpc"
)

const (
	DriverNative   = "native"
	DriverSolanaGo = "solana-go"
)

// Client is the part of a JSON-RPC node the submitter needs.
type Client interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Config selects and configures a Client.
type Config struct {
	Driver              string
	RPCURL              string
	Timeout             time.Duration
	MaxRetries          int
	RetryBackoff        time.Duration
	SkipPreflight       bool
	PreflightCommitment string
	// SendMaxRetries is forwarded to sendTransaction as maxRetries; nil
	// leaves the node default
	SendMaxRetries *uint
	Logger         *logrus.Logger
}

// NewClient builds the client for cfg.Driver; an empty driver means native.
func NewClient(cfg Config) (Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	switch cfg.Driver {
	case "", DriverNative:
		return nativerpc.NewClient(nativerpc.ClientConfig{
			BaseURL:      cfg.RPCURL,
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
			Send: nativerpc.SendOptions{
				SkipPreflight:       cfg.SkipPreflight,
				PreflightCommitment: cfg.PreflightCommitment,
				MaxRetries:          cfg.SendMaxRetries,
			},
			Logger: cfg.Logger,
		}), nil
	case DriverSolanaGo:
		return &solanaGoClient{
			rpc:     rpc.New(cfg.RPCURL),
			timeout: cfg.Timeout,
			opts: rpc.TransactionOpts{
				SkipPreflight:       cfg.SkipPreflight,
				PreflightCommitment: rpc.CommitmentType(cfg.PreflightCommitment),
				MaxRetries:          cfg.SendMaxRetries,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
}

type solanaGoClient struct {
	rpc     *rpc.Client
	timeout time.Duration
	opts    rpc.TransactionOpts
}

func (c *solanaGoClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.rpc.SendTransactionWithOpts(ctx, tx, c.opts)
}
