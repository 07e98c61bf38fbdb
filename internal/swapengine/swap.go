package swapengine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
	"github.com/aman-zulfiqar/jupiter-solana/internal/txcodec"
)

// BuildSignedSwap quotes (unless req carries a quote), asks the aggregator
// for the swap transaction, appends the fee transfer when a fee account is
// set and signs with the wallet. Nothing is submitted.
func (e *Engine) BuildSignedSwap(ctx context.Context, req SwapRequest) (*txcodec.SignedTransaction, *jupiter.QuoteResponse, error) {
	if err := e.requireSigner(); err != nil {
		return nil, nil, err
	}

	quote := req.Quote
	if quote == nil {
		var err error
		quote, err = e.aggregator.Quote(ctx, e.quoteRequest(req))
		if err != nil {
			return nil, nil, fmt.Errorf("quote: %w", err)
		}
	}

	owner := e.signer.PublicKey()
	wrap := e.wrapAndUnwrapSol
	if req.WrapAndUnwrapSol != nil {
		wrap = *req.WrapAndUnwrapSol
	}
	swapReq := jupiter.SwapTransactionRequest{
		Quote:                     quote,
		UserPublicKey:             owner.String(),
		WrapAndUnwrapSol:          wrap,
		PrioritizationFeeLamports: req.PrioritizationFeeLamports,
	}
	if req.AsLegacyTransaction {
		legacy := true
		swapReq.AsLegacyTransaction = &legacy
	}

	swapResp, err := e.aggregator.SwapTransaction(ctx, swapReq)
	if err != nil {
		return nil, nil, fmt.Errorf("swap transaction: %w", err)
	}

	draft, err := txcodec.Decode(swapResp.SwapTransaction)
	if err != nil {
		return nil, nil, err
	}

	if req.FeeAccount != nil {
		ix := system.NewTransferInstruction(constants.FeeTransferLamports, owner, *req.FeeAccount).Build()
		if err := draft.AppendInstruction(ix); err != nil {
			return nil, nil, fmt.Errorf("append fee transfer: %w", err)
		}
	}

	// swaps are signed by the wallet alone
	required := draft.RequiredSigners()
	if len(required) != 1 || !required[0].Equals(owner) {
		return nil, nil, &txcodec.SignatureSlotMismatchError{
			Slot:     -1,
			Key:      owner,
			Role:     "owner",
			Required: len(required),
			Reason:   "swap transaction must require only the wallet signature",
		}
	}

	signed, err := draft.Sign(txcodec.SignerRole{Name: "owner", Signer: e.signer})
	if err != nil {
		return nil, nil, err
	}

	return signed, quote, nil
}

// ExecuteSwap builds, signs and submits a swap and returns its transaction id.
func (e *Engine) ExecuteSwap(ctx context.Context, req SwapRequest) (solana.Signature, error) {
	exec, err := e.ExecuteSwapWithMeta(ctx, req)
	if err != nil {
		return solana.Signature{}, err
	}
	return exec.Signature, nil
}

// ExecuteSwapWithMeta is ExecuteSwap that also reports the quote the swap
// was built from.
func (e *Engine) ExecuteSwapWithMeta(ctx context.Context, req SwapRequest) (*SwapExecution, error) {
	start := time.Now()

	signed, quote, err := e.BuildSignedSwap(ctx, req)
	if err != nil {
		return nil, err
	}

	sig, err := e.submitter.Submit(ctx, signed)
	if err != nil {
		return nil, err
	}

	exec := &SwapExecution{
		ExecutionID: uuid.NewString(),
		Signature:   sig,
		InputMint:   quote.InputMint,
		OutputMint:  quote.OutputMint,
		Amount:      req.Amount,
		Quote:       quote,
		SubmittedAt: e.now().UTC(),
		Duration:    time.Since(start),
	}
	if req.Quote != nil && req.Amount == 0 {
		exec.Amount = parseAmount(quote.InAmount)
	}
	if req.FeeAccount != nil {
		exec.FeeAccount = req.FeeAccount.String()
	}

	e.logger.WithFields(logrus.Fields{
		"execution_id": exec.ExecutionID,
		"signature":    sig.String(),
		"input_mint":   exec.InputMint,
		"output_mint":  exec.OutputMint,
		"in_amount":    quote.InAmount,
		"out_amount":   quote.OutAmount,
		"fee":          req.FeeAccount != nil,
		"duration":     exec.Duration,
	}).Info("swap submitted")

	record := &models.Execution{
		ID:          exec.ExecutionID,
		Kind:        constants.ExecutionKindSwap,
		Signature:   sig.String(),
		Wallet:      e.Wallet().String(),
		InputMint:   quote.InputMint,
		OutputMint:  quote.OutputMint,
		InAmount:    parseAmount(quote.InAmount),
		OutAmount:   parseAmount(quote.OutAmount),
		FeeAccount:  exec.FeeAccount,
		SubmittedAt: exec.SubmittedAt,
	}
	if raw, err := quote.MarshalJSON(); err == nil {
		record.Quote = raw
	}
	e.journal(ctx, record)

	return exec, nil
}

func (e *Engine) quoteRequest(req SwapRequest) jupiter.QuoteRequest {
	slippage := DefaultSlippageBps
	if req.SlippageBps != nil {
		slippage = *req.SlippageBps
	}
	return jupiter.QuoteRequest{
		InputMint:           strings.TrimSpace(req.InputMint),
		OutputMint:          strings.TrimSpace(req.OutputMint),
		Amount:              req.Amount,
		SlippageBps:         &slippage,
		SwapMode:            req.SwapMode,
		ExcludeDexes:        req.ExcludeDexes,
		OnlyDirectRoutes:    req.OnlyDirectRoutes,
		AsLegacyTransaction: req.AsLegacyTransaction,
		PlatformFeeBps:      req.PlatformFeeBps,
		MaxAccounts:         req.MaxAccounts,
	}
}

func parseAmount(s string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
