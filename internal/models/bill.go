package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillType categorizes a bill for fee dispatch. Unknown categories fall back
// to the default bill-payment rate.
type BillType string

const (
	BillTypeTelecom     BillType = "telecom"
	BillTypeWater       BillType = "water"
	BillTypeElectricity BillType = "electricity"
	BillTypeTaxes       BillType = "taxes"
)

// Bill records a bill-payment attempt against an external biller
// (Maroc Telecom, REDAL, LYDEC, ...). It is created when a payment is
// attempted and marked paid only on successful provider settlement.
type Bill struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BillerName        string          `gorm:"not null"`
	BillerReference   string          `gorm:"not null"`
	CustomerReference string          `gorm:"not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	DueDate           time.Time
	IsPaid            bool `gorm:"not null;default:false"`
	PaymentDate       *time.Time
	PaymentReference  string   `gorm:"size:64"`
	BillType          BillType `gorm:"size:24"`

	CreatedAt time.Time
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
