package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Offer types
type OfferType string

const (
	OfferTypeCashback      OfferType = "cashback"
	OfferTypeReducedFees   OfferType = "reduced_fees"
	OfferTypeRechargeBonus OfferType = "recharge_bonus"
)

// Offer is a promotional policy a wallet can borrow. Exactly the bonus field
// matching Type is populated; the others stay nil. Activation is an explicit
// state transition independent of the validity window.
type Offer struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"not null"`
	Description   string          `gorm:"not null"`
	Type          OfferType       `gorm:"size:24;not null"`
	SpendingLimit decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	ValidFrom     time.Time       `gorm:"not null"`
	ValidTo       time.Time       `gorm:"not null"`
	IsActive      bool            `gorm:"not null;default:true"`

	// Benefit percentages, in (0,100].
	CashbackPercentage *decimal.Decimal `gorm:"type:numeric(5,2)"`
	FeesDiscount       *decimal.Decimal `gorm:"type:numeric(5,2)"`
	RechargeBonus      *decimal.Decimal `gorm:"type:numeric(5,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// CurrentlyValid reports whether the offer grants benefits at the given
// instant: explicitly active and not past its validity window.
func (o *Offer) CurrentlyValid(now time.Time) bool {
	return o != nil && o.IsActive && !o.ValidTo.Before(now)
}
