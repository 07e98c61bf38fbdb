package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
)

const createExecutionsTable = `
	CREATE TABLE IF NOT EXISTS executions (
		id           String,
		kind         LowCardinality(String),
		signature    String,
		wallet       String,
		input_mint   String,
		output_mint  String,
		in_amount    UInt64,
		out_amount   UInt64,
		fee_account  String,
		order_keys   Array(String),
		quote        String,
		submitted_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (wallet, submitted_at)
`

// ClickHouseOptions configures the execution history store.
type ClickHouseOptions struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

// ClickHouseStore appends executions to a MergeTree table.
type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, opts ClickHouseOptions) (*ClickHouseStore, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if err := conn.Exec(ctx, createExecutionsTable); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create executions table: %w", err)
	}

	opts.Logger.WithFields(logrus.Fields{
		"addr":     opts.Addr,
		"database": opts.Database,
	}).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: opts.Logger}, nil
}

func (c *ClickHouseStore) InsertExecution(ctx context.Context, exec *models.Execution) error {
	query := `
		INSERT INTO executions (
			id, kind, signature, wallet, input_mint, output_mint,
			in_amount, out_amount, fee_account, order_keys, quote, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	orderKeys := exec.OrderKeys
	if orderKeys == nil {
		orderKeys = []string{}
	}

	err := c.conn.Exec(ctx, query,
		exec.ID,
		exec.Kind,
		exec.Signature,
		exec.Wallet,
		exec.InputMint,
		exec.OutputMint,
		exec.InAmount,
		exec.OutAmount,
		exec.FeeAccount,
		orderKeys,
		string(exec.Quote),
		exec.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}

	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
