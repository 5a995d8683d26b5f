package account

import (
	"time"

	"gorm.io/gorm"
)

// Account is a registered user's credential and verification record.
// VerificationToken and TokenExpiresAt are set together at registration and
// cleared together when the account is verified.
type Account struct {
	gorm.Model
	Email             string     `json:"email" gorm:"uniqueIndex;not null"`
	Password          string     `json:"-" gorm:"not null"`
	Verified          bool       `json:"verified" gorm:"default:false"`
	VerificationToken *string    `json:"-" gorm:"uniqueIndex"`
	TokenExpiresAt    *time.Time `json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}
