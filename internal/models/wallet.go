package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet statuses
type WalletStatus string

const (
	WalletStatusActive   WalletStatus = "active"
	WalletStatusInactive WalletStatus = "inactive"
	WalletStatusBlocked  WalletStatus = "blocked"
)

// KycLevel is the identity-verification tier of a wallet. Higher tiers
// unlock higher daily/monthly transaction limits. Tiers only ever move up.
type KycLevel int

const (
	KycLevelNone KycLevel = iota
	KycLevelBasic
	KycLevelStandard
	KycLevelAdvanced
)

func (l KycLevel) String() string {
	switch l {
	case KycLevelBasic:
		return "basic"
	case KycLevelStandard:
		return "standard"
	case KycLevelAdvanced:
		return "advanced"
	default:
		return "none"
	}
}

// Wallet is the unit of financial truth: balance, limits and usage counters.
// Balance and the usage counters are only ever mutated inside a database
// transaction holding the wallet row lock (see repositories.WalletRepository).
type Wallet struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     uint      `gorm:"index;not null"`
	OwnerName   string
	PhoneNumber string          `gorm:"size:16"`
	Balance     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Currency    string          `gorm:"size:3;not null;default:'MAD'"`
	Status      WalletStatus    `gorm:"size:16;not null;default:'active'"`
	KycLevel    KycLevel        `gorm:"not null;default:0"`

	// Spending limits derived from the KYC level, and rolling usage counters.
	DailyLimit          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	MonthlyLimit        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CurrentDailyUsage   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CurrentMonthlyUsage decimal.Decimal `gorm:"type:numeric(18,2);not null"`

	OfferID *uuid.UUID `gorm:"type:uuid;index"`
	Offer   *Offer

	// KYC verification data.
	CinNumber          string `gorm:"size:16"`
	IsIdentityVerified bool   `gorm:"not null;default:false"`
	VerificationDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
