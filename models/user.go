package models

import "time"

// UserRole is advisory: clients read it from /get-role.
type UserRole string

const (
	RoleRestaurantHandler UserRole = "restaurant-handler"
	RoleRider             UserRole = "rider"
	RoleAdmin             UserRole = "admin"
)

// RoleRecord rows are append-only; repeated acceptances add duplicates.
type RoleRecord struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index;not null"`
	Role      UserRole  `json:"role" gorm:"not null"`
	CreatedAt time.Time `json:"-"`
}

func (RoleRecord) TableName() string { return "user_roles" }

// Address holds a customer's delivery address and phone, keyed by email.
type Address struct {
	Email   string `json:"email" gorm:"primaryKey;size:191"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type VerificationStatus string

const (
	VerificationUnregistered VerificationStatus = "unregistered"
	VerificationPending      VerificationStatus = "not verified yet"
	VerificationVerified     VerificationStatus = "verified"
)

// EmailVerification is one issued code. Older codes stay valid: there is no
// expiry and no cleanup.
type EmailVerification struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index;not null"`
	CodeHash  string    `json:"-" gorm:"index;size:64;not null"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}
