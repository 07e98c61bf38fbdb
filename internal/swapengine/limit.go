package swapengine

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
	"github.com/aman-zulfiqar/jupiter-solana/internal/txcodec"
)

// OpenLimitOrder creates a limit order. A fresh base keypair identifies the
// order account, so the transaction is signed by the wallet and the base.
func (e *Engine) OpenLimitOrder(ctx context.Context, req LimitOrderRequest) (*LimitOrderResult, error) {
	if err := e.requireSigner(); err != nil {
		return nil, err
	}

	base, err := e.ephemeral()
	if err != nil {
		return nil, fmt.Errorf("generate order base: %w", err)
	}

	owner := e.signer.PublicKey()
	created, err := e.aggregator.CreateOrder(ctx, jupiter.CreateOrderRequest{
		Owner:      owner.String(),
		InputMint:  req.InputMint,
		OutputMint: req.OutputMint,
		InAmount:   req.InAmount,
		OutAmount:  req.OutAmount,
		Base:       base.PublicKey().String(),
		ExpiredAt:  req.ExpiredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var order solana.PublicKey
	if created.Order != "" {
		if order, err = solana.PublicKeyFromBase58(created.Order); err != nil {
			return nil, fmt.Errorf("create order: invalid order key %q: %w", created.Order, err)
		}
	}

	draft, err := txcodec.Decode(created.Tx)
	if err != nil {
		return nil, err
	}
	signed, err := draft.Sign(
		txcodec.SignerRole{Name: "owner", Signer: e.signer},
		txcodec.SignerRole{Name: "base", Signer: base},
	)
	if err != nil {
		return nil, err
	}

	sig, err := e.submitter.Submit(ctx, signed)
	if err != nil {
		return nil, err
	}

	res := &LimitOrderResult{
		ExecutionID: uuid.NewString(),
		Signature:   sig,
		Order:       order,
		Base:        base.PublicKey(),
	}

	var orderKeys []string
	if !order.IsZero() {
		orderKeys = []string{order.String()}
	} else {
		e.logger.WithField("signature", sig.String()).Warn("aggregator did not report the order key")
	}

	e.logger.WithFields(logrus.Fields{
		"execution_id": res.ExecutionID,
		"signature":    sig.String(),
		"order":        order.String(),
		"base":         res.Base.String(),
		"input_mint":   req.InputMint,
		"output_mint":  req.OutputMint,
	}).Info("limit order opened")

	e.journal(ctx, &models.Execution{
		ID:          res.ExecutionID,
		Kind:        constants.ExecutionKindLimitOpen,
		Signature:   sig.String(),
		Wallet:      owner.String(),
		InputMint:   req.InputMint,
		OutputMint:  req.OutputMint,
		InAmount:    req.InAmount,
		OutAmount:   req.OutAmount,
		OrderKeys:   orderKeys,
		SubmittedAt: e.now().UTC(),
	})

	return res, nil
}

// CancelLimitOrders cancels the given orders, or every open order of the
// wallet when orders is empty. The wallet pays for the cancellation.
func (e *Engine) CancelLimitOrders(ctx context.Context, orders []solana.PublicKey) (solana.Signature, error) {
	if err := e.requireSigner(); err != nil {
		return solana.Signature{}, err
	}

	owner := e.signer.PublicKey().String()
	keys := make([]string, 0, len(orders))
	for _, o := range orders {
		keys = append(keys, o.String())
	}

	payload, err := e.aggregator.CancelOrders(ctx, jupiter.CancelOrdersRequest{
		Owner:    owner,
		FeePayer: owner,
		Orders:   keys,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cancel orders: %w", err)
	}

	draft, err := txcodec.Decode(payload)
	if err != nil {
		return solana.Signature{}, err
	}
	signed, err := draft.Sign(txcodec.SignerRole{Name: "owner", Signer: e.signer})
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := e.submitter.Submit(ctx, signed)
	if err != nil {
		return solana.Signature{}, err
	}

	id := uuid.NewString()
	e.logger.WithFields(logrus.Fields{
		"execution_id": id,
		"signature":    sig.String(),
		"orders":       len(keys),
	}).Info("limit orders cancelled")

	e.journal(ctx, &models.Execution{
		ID:          id,
		Kind:        constants.ExecutionKindLimitCancel,
		Signature:   sig.String(),
		Wallet:      owner,
		OrderKeys:   keys,
		SubmittedAt: e.now().UTC(),
	})

	return sig, nil
}

// OpenOrders lists open orders of wallet. The mints are optional filters.
func (e *Engine) OpenOrders(ctx context.Context, wallet, inputMint, outputMint string) ([]jupiter.Order, error) {
	return e.aggregator.OpenOrders(ctx, wallet, inputMint, outputMint)
}

// OrderHistory lists past orders of a wallet.
func (e *Engine) OrderHistory(ctx context.Context, req jupiter.HistoryRequest) ([]jupiter.HistoryOrder, error) {
	return e.aggregator.OrderHistory(ctx, req)
}

// TradeHistory lists fills of a wallet's orders.
func (e *Engine) TradeHistory(ctx context.Context, req jupiter.HistoryRequest) ([]jupiter.Trade, error) {
	return e.aggregator.TradeHistory(ctx, req)
}
