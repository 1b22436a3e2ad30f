package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Project statuses.
const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// Milestone statuses.
const (
	MilestonePending    = "pending"
	MilestoneInProgress = "in_progress"
	MilestoneCompleted  = "completed"
	MilestoneDelayed    = "delayed"
)

// Project represents the projects table
type Project struct {
	ProjectID   uint                `gorm:"primaryKey;column:project_id" json:"project_id"`
	IdeaID      *string             `gorm:"column:idea_id;type:char(36);index" json:"idea_id,omitempty"`
	Name        string              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description *string             `gorm:"column:description;type:text" json:"description,omitempty"`
	Owner       *string             `gorm:"column:owner;type:varchar(255)" json:"owner,omitempty"`
	Status      string              `gorm:"column:status;type:varchar(16);not null;default:planning;index" json:"status"`
	Priority    string              `gorm:"column:priority;type:varchar(16);not null;default:medium" json:"priority"`
	StartDate   *time.Time          `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate     *time.Time          `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	Budget      decimal.NullDecimal `gorm:"column:budget;type:decimal(14,2)" json:"budget"`
	CreatedBy   *int                `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"column:deleted_at;index" json:"-"`

	Milestones []Milestone `gorm:"foreignKey:ProjectID;references:ProjectID" json:"milestones,omitempty"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Milestone represents the project_milestones table
type Milestone struct {
	MilestoneID uint       `gorm:"primaryKey;column:milestone_id" json:"milestone_id"`
	ProjectID   uint       `gorm:"column:project_id;not null;index" json:"project_id"`
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Owner       *string    `gorm:"column:owner;type:varchar(255)" json:"owner,omitempty"`
	DueDate     *time.Time `gorm:"column:due_date;type:date;index" json:"due_date,omitempty"`
	Status      string     `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name for Milestone
func (Milestone) TableName() string {
	return "project_milestones"
}

// Overdue reports whether an unfinished milestone is past its due date.
func (m Milestone) Overdue(now time.Time) bool {
	if m.DueDate == nil || m.Status == MilestoneCompleted {
		return false
	}
	return m.DueDate.Before(now)
}
