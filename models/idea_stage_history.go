package models

import (
	"time"

	"github.com/google/uuid"

	"idea-portfolio-api/evaluation"
)

// IdeaStageHistory is the append-only log of gate decisions.
type IdeaStageHistory struct {
	ID              string              `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	IdeaID          string              `gorm:"column:idea_id;type:char(36);not null;index" json:"idea_id"`
	FromStage       evaluation.Stage    `gorm:"column:from_stage;type:varchar(2);not null" json:"from_stage"`
	ToStage         evaluation.Stage    `gorm:"column:to_stage;type:varchar(2);not null" json:"to_stage"`
	FromStatus      evaluation.Status   `gorm:"column:from_status;type:varchar(16);not null" json:"from_status"`
	ToStatus        evaluation.Status   `gorm:"column:to_status;type:varchar(16);not null" json:"to_status"`
	Decision        evaluation.Decision `gorm:"column:decision;type:varchar(16);not null" json:"decision"`
	Score           float64             `gorm:"column:score;type:decimal(20,2)" json:"score"`
	ChangedBy       string              `gorm:"column:changed_by;type:varchar(255);not null" json:"changed_by"`
	ChangedByUserID *int                `gorm:"column:changed_by_user_id" json:"changed_by_user_id,omitempty"`
	ChangeReason    string              `gorm:"column:change_reason;type:text" json:"change_reason"`
	CreatedAt       time.Time           `gorm:"column:created_at;not null;index" json:"created_at"`
}

// TableName specifies the table for IdeaStageHistory.
func (IdeaStageHistory) TableName() string {
	return "idea_stage_history"
}

// NewIdeaStageHistory turns an evaluation entry into a row.
func NewIdeaStageHistory(ideaID string, entry evaluation.HistoryEntry, userID *int) IdeaStageHistory {
	return IdeaStageHistory{
		ID:              uuid.NewString(),
		IdeaID:          ideaID,
		FromStage:       entry.FromStage,
		ToStage:         entry.ToStage,
		FromStatus:      entry.FromStatus,
		ToStatus:        entry.ToStatus,
		Decision:        entry.Decision,
		Score:           entry.Score,
		ChangedBy:       entry.ChangedBy,
		ChangedByUserID: userID,
		ChangeReason:    entry.Reason,
		CreatedAt:       entry.CreatedAt,
	}
}
