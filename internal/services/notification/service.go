// Package notification delivers customer receipts and admin alerts. The
// current transport writes structured log entries; swapping in SMS or email
// only touches this package.
package notification

import (
	"context"

	"github.com/sirupsen/logrus"

	"atlaspay/internal/models"
)

type Service struct {
	log *logrus.Entry
}

func NewService(log *logrus.Logger) *Service {
	return &Service{log: log.WithField("component", "notification")}
}

// TransactionCompleted sends the wallet owner a receipt for a settled
// transaction, successful or not.
func (s *Service) TransactionCompleted(ctx context.Context, wallet *models.Wallet, tx *models.Transaction) {
	s.log.WithFields(logrus.Fields{
		"owner_id":   wallet.OwnerID,
		"wallet_id":  wallet.ID,
		"tx_id":      tx.ID,
		"type":       string(tx.Type),
		"amount":     tx.Amount.String(),
		"successful": tx.IsSuccessful,
		"reference":  tx.ReferenceNumber,
	}).Info("transaction notification sent")
}

// KycStatusChanged tells the wallet owner about a verification event: basic
// verification, a completed identity check, or a tier upgrade.
func (s *Service) KycStatusChanged(ctx context.Context, wallet *models.Wallet, message string) {
	s.log.WithFields(logrus.Fields{
		"owner_id":  wallet.OwnerID,
		"wallet_id": wallet.ID,
		"level":     wallet.KycLevel.String(),
		"message":   message,
	}).Info("kyc notification sent")
}

// AdminAlert raises an operational alert to the back-office team.
func (s *Service) AdminAlert(ctx context.Context, subject, detail string) {
	s.log.WithFields(logrus.Fields{
		"subject": subject,
		"detail":  detail,
	}).Warn("admin alert raised")
}
