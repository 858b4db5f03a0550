package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdrawal  TransactionType = "withdrawal"
	TransactionTypeTransfer    TransactionType = "transfer"
	TransactionTypeBillPayment TransactionType = "bill_payment"
	TransactionTypeFee         TransactionType = "fee"
	TransactionTypeBonus       TransactionType = "bonus"
)

// Payment methods
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodOrangeMoney  PaymentMethod = "orange_money"
	PaymentMethodInwiMoney    PaymentMethod = "inwi_money"
	PaymentMethodCash         PaymentMethod = "cash"
)

// IsMobileMoney reports whether the method settles through a mobile-money
// operator.
func (m PaymentMethod) IsMobileMoney() bool {
	return m == PaymentMethodOrangeMoney || m == PaymentMethodInwiMoney
}

// Transaction is one row of the append-only ledger. Rows are written exactly
// once per monetary event attempt, success or failure, and never updated.
// Fees and bonuses are recorded as separate auxiliary rows (type fee / bonus)
// referencing the primary row through ReferenceNumber.
type Transaction struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	WalletID            uuid.UUID        `gorm:"type:uuid;index;not null"`
	DestinationWalletID *uuid.UUID       `gorm:"type:uuid"`
	Type                TransactionType  `gorm:"size:16;not null"`
	Amount              decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	Fee                 decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	Cashback            *decimal.Decimal `gorm:"type:numeric(18,2)"`
	Description         string
	ReferenceNumber     string `gorm:"index"`
	IsSuccessful        bool   `gorm:"not null"`
	FailureReason       string
	PaymentMethod       *PaymentMethod `gorm:"size:16"`

	// Bill payments only.
	BillID *uuid.UUID `gorm:"type:uuid"`
	Bill   *Bill

	CreatedAt time.Time
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
