package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity/auth record. It owns zero or more wallets by id;
// wallets are never embedded.
type User struct {
	gorm.Model
	Username         string `gorm:"uniqueIndex;not null"`
	Email            string `gorm:"uniqueIndex;not null"`
	Password         string `gorm:"not null"`
	FullName         string
	PhoneNumber      string `gorm:"size:16"`
	CinNumber        string `gorm:"size:16"`
	DateOfBirth      *time.Time
	Address          string
	City             string
	KycLevel         KycLevel `gorm:"not null;default:0"`
	IsEmailVerified  bool     `gorm:"not null;default:false"`
	IsPhoneVerified  bool     `gorm:"not null;default:false"`
	TwoFactorEnabled bool     `gorm:"not null;default:false"`
	Role             string   `gorm:"size:16;not null;default:'user'"`
	TokenVersion     int      `gorm:"not null;default:1"`
}
