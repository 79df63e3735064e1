package model

import "time"

// StoreModel mirrors the 'stores' table.
type StoreModel struct {
	ID          uint       `gorm:"primaryKey"`
	OwnerID     uint       `gorm:"not null;index:idx_stores_owner_created"`
	Owner       *UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name        string     `gorm:"type:varchar(120);not null"`
	Slug        string     `gorm:"type:varchar(140);uniqueIndex;not null"`
	Slogan      string     `gorm:"type:varchar(200)"`
	Description string     `gorm:"type:text"`
	Category    string     `gorm:"type:varchar(80)"`
	LogoKey     string     `gorm:"type:varchar(255)"`
	Plan        string     `gorm:"type:varchar(20);not null;default:'starter'"`
	IsPublic    bool       `gorm:"not null"`
	IsArchived  bool       `gorm:"not null;default:false;index"`
	ArchivedAt  *time.Time
	CreatedAt   time.Time `gorm:"index:idx_stores_owner_created"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (StoreModel) TableName() string {
	return "stores"
}

// PlanUpgradeModel mirrors the 'plan_upgrades' table.
type PlanUpgradeModel struct {
	ID          uint        `gorm:"primaryKey"`
	StoreID     uint        `gorm:"not null;index"`
	Store       *StoreModel `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Plan        string      `gorm:"type:varchar(20);not null"`
	Provider    string      `gorm:"type:varchar(20);not null"`
	SessionID   string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Status      string      `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	ConfirmedAt *time.Time
}

// TableName explicitly sets the table name for GORM.
func (PlanUpgradeModel) TableName() string {
	return "plan_upgrades"
}
