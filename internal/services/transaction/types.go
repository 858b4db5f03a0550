package transaction

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/services/payment"
)

// DepositRequest funds a wallet from an external rail.
type DepositRequest struct {
	ActorID     uint
	WalletID    uuid.UUID
	Amount      decimal.Decimal
	Details     payment.Details
	Description string
}

// WithdrawRequest moves wallet funds out to an external rail.
type WithdrawRequest struct {
	ActorID     uint
	WalletID    uuid.UUID
	Amount      decimal.Decimal
	Details     payment.Details
	Description string
}

// TransferRequest moves funds between two wallets. Transfers above the
// confirmation threshold must carry a valid OTP code.
type TransferRequest struct {
	ActorID             uint
	SourceWalletID      uuid.UUID
	DestinationWalletID uuid.UUID
	Amount              decimal.Decimal
	OTPCode             string
	Description         string
}

// PayBillRequest settles an invoice with a biller from wallet funds.
type PayBillRequest struct {
	ActorID           uint
	WalletID          uuid.UUID
	BillerName        string
	BillType          models.BillType
	CustomerReference string
	Amount            decimal.Decimal
	Description       string
}

// Result reports one processed attempt. Transaction is always set, also for
// settlement failures, which are recorded rather than raised.
type Result struct {
	Transaction  *models.Transaction
	Fee          decimal.Decimal
	Bonus        decimal.Decimal
	FraudFlagged bool
}

// ListRequest pages through a wallet's ledger.
type ListRequest struct {
	ActorID  uint
	WalletID uuid.UUID
	Filter   repositories.TransactionFilter
}

// ListResult carries one page plus the unpaged total.
type ListResult struct {
	Transactions []models.Transaction
	Total        int64
}
