package ledger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/txcodec"
)

// Submitter hands signed transactions to the ledger. It does not retry or
// wait for confirmation.
type Submitter struct {
	client Client
	logger *logrus.Logger
}

func NewSubmitter(client Client, logger *logrus.Logger) (*Submitter, error) {
	if client == nil {
		return nil, fmt.Errorf("ledger client is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Submitter{client: client, logger: logger}, nil
}

// Submit sends signed and returns the transaction id the node reports.
func (s *Submitter) Submit(ctx context.Context, signed *txcodec.SignedTransaction) (solana.Signature, error) {
	if signed == nil {
		return solana.Signature{}, fmt.Errorf("signed transaction is required")
	}

	sig, err := s.client.SendTransaction(ctx, signed.Transaction())
	if err != nil {
		subErr := classify(err)
		s.logger.WithFields(logrus.Fields{
			"kind":      subErr.Kind,
			"code":      subErr.Code,
			"signature": signed.Signature().String(),
		}).Warn("transaction rejected")
		return solana.Signature{}, subErr
	}

	if sig != signed.Signature() {
		s.logger.WithFields(logrus.Fields{
			"expected": signed.Signature().String(),
			"got":      sig.String(),
		}).Warn("node reported a different signature")
	}

	s.logger.WithFields(logrus.Fields{
		"signature": sig.String(),
		"signers":   len(signed.Signatures()),
	}).Info("transaction submitted")

	return sig, nil
}
