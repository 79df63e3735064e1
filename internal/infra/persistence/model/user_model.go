package model

import "time"

// UserModel mirrors the 'users' table.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsStaff      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// MerchantProfileModel mirrors the 'merchant_profiles' table. UserID references users.id.
type MerchantProfileModel struct {
	ID          uint       `gorm:"primaryKey"`
	UserID      uint       `gorm:"uniqueIndex;not null"`
	User        *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	DisplayName string     `gorm:"type:varchar(120);not null"`
	Slug        string     `gorm:"type:varchar(140);uniqueIndex;not null"`
	Email       string     `gorm:"type:varchar(255)"`
	Plan        string     `gorm:"type:varchar(20);not null;default:'starter'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (MerchantProfileModel) TableName() string {
	return "merchant_profiles"
}
