// Package fraud screens transaction attempts against per-type amount
// thresholds. Verdicts are advisory: flagged transactions proceed, admins
// get alerted.
package fraud

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"atlaspay/internal/models"
)

var thresholds = map[models.TransactionType]decimal.Decimal{
	models.TransactionTypeDeposit:    decimal.NewFromInt(10_000),
	models.TransactionTypeWithdrawal: decimal.NewFromInt(5_000),
	models.TransactionTypeTransfer:   decimal.NewFromInt(7_000),
}

// Verdict is the outcome of a screening pass.
type Verdict struct {
	Flagged bool
	Reason  string
}

type Screener struct {
	log *logrus.Entry
}

func NewScreener(log *logrus.Logger) *Screener {
	return &Screener{log: log.WithField("component", "fraud")}
}

// Screen evaluates one attempt. Types without a threshold are never flagged.
func (s *Screener) Screen(ctx context.Context, txType models.TransactionType, amount decimal.Decimal, walletID uuid.UUID) Verdict {
	threshold, ok := thresholds[txType]
	if !ok || amount.LessThanOrEqual(threshold) {
		return Verdict{}
	}

	reason := fmt.Sprintf("%s of %s exceeds the %s screening threshold", txType, amount, threshold)
	s.log.WithFields(logrus.Fields{
		"wallet_id": walletID,
		"type":      string(txType),
		"amount":    amount.String(),
	}).Warn("transaction flagged for review")

	return Verdict{Flagged: true, Reason: reason}
}
