package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contract statuses.
const (
	ContractDraft      = "draft"
	ContractActive     = "active"
	ContractExpired    = "expired"
	ContractTerminated = "terminated"
)

// VendorContract represents the vendor_contracts table
type VendorContract struct {
	ContractID     uint                `gorm:"primaryKey;column:contract_id" json:"contract_id"`
	ProjectID      *uint               `gorm:"column:project_id;index" json:"project_id,omitempty"`
	VendorName     string              `gorm:"column:vendor_name;type:varchar(255);not null" json:"vendor_name"`
	ContractNumber string              `gorm:"column:contract_number;type:varchar(64);not null;uniqueIndex" json:"contract_number"`
	ContractValue  decimal.NullDecimal `gorm:"column:contract_value;type:decimal(14,2)" json:"contract_value"`
	StartDate      *time.Time          `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate        *time.Time          `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	Status         string              `gorm:"column:status;type:varchar(16);not null;default:draft;index" json:"status"`
	ContactName    *string             `gorm:"column:contact_name;type:varchar(255)" json:"contact_name,omitempty"`
	ContactEmail   *string             `gorm:"column:contact_email;type:varchar(255)" json:"contact_email,omitempty"`
	ContactPhone   *string             `gorm:"column:contact_phone;type:varchar(64)" json:"contact_phone,omitempty"`
	Notes          *string             `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt      `gorm:"column:deleted_at;index" json:"-"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

func (VendorContract) TableName() string { return "vendor_contracts" }
