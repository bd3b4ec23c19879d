package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthType enum constants
const (
	AuthTypeEmail  = "Email"
	AuthTypePhone  = "Phone"
	AuthTypeGoogle = "Google"
)

const CustomerStatusActive = "active"

// Customer is a shopper account
type Customer struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        *string        `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PhonePrimary *string        `gorm:"type:varchar(20);uniqueIndex" json:"phone_primary"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserAuth is one login method of a customer. AuthData is the email, phone or Google id.
type UserAuth struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      Customer   `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthType      string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_auth_identity" json:"auth_type"`
	AuthData      string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_auth_identity" json:"auth_data"`
	PasswordHash  *string    `gorm:"type:varchar(255)" json:"-"`
	OTPHash       *string    `gorm:"column:otp_hash;type:varchar(255)" json:"-"` // bcrypt of the code, never the code itself
	OTPExpiry     *time.Time `gorm:"column:otp_expiry" json:"-"`
	OTPVerified   bool       `gorm:"column:otp_verified;not null;default:false" json:"otp_verified"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserAuth) TableName() string {
	return "user_auth"
}
