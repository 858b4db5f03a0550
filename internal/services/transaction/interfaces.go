package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atlaspay/internal/models"
	"atlaspay/internal/services/billing"
	"atlaspay/internal/services/fraud"
	"atlaspay/internal/services/payment"
)

// Gateway settles deposits and withdrawals against the external rails.
type Gateway interface {
	Validate(details payment.Details) error
	Collect(ctx context.Context, details payment.Details, amount decimal.Decimal, currency, reference string) error
	Disburse(ctx context.Context, details payment.Details, amount decimal.Decimal, currency, reference string) error
}

// BillProvider confirms an invoice with the biller and settles it. PayBill
// returns the biller's payment reference; its error is a settlement outcome,
// recorded rather than raised.
type BillProvider interface {
	Verify(ctx context.Context, billerName string, billType models.BillType, customerRef string, amount decimal.Decimal) (*billing.Invoice, error)
	PayBill(ctx context.Context, invoice *billing.Invoice, amount decimal.Decimal) (string, error)
}

// FraudChecker screens attempts. Verdicts are advisory and never block.
type FraudChecker interface {
	Screen(ctx context.Context, txType models.TransactionType, amount decimal.Decimal, walletID uuid.UUID) fraud.Verdict
}

// Notifier delivers customer receipts and admin alerts.
type Notifier interface {
	TransactionCompleted(ctx context.Context, wallet *models.Wallet, tx *models.Transaction)
	AdminAlert(ctx context.Context, subject, detail string)
}

// OTPVerifier checks and consumes a one-time confirmation code.
type OTPVerifier interface {
	Verify(ctx context.Context, userID uint, code string) (bool, error)
}

// WalletCache invalidates cached wallet reads after a balance mutation.
type WalletCache interface {
	InvalidateWallet(ctx context.Context, id uuid.UUID) error
}
