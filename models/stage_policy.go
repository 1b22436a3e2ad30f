package models

import (
	"time"

	"idea-portfolio-api/evaluation"
)

// StagePolicy is a stored threshold override for one numeric gate.
type StagePolicy struct {
	Stage     evaluation.Stage `gorm:"primaryKey;column:stage;type:varchar(2)" json:"stage"`
	Threshold float64          `gorm:"column:threshold;type:decimal(10,2);not null" json:"threshold"`
	UpdatedBy *int             `gorm:"column:updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (StagePolicy) TableName() string {
	return "stage_policies"
}
