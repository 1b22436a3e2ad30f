package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"idea-portfolio-api/evaluation"
)

// Idea is the unit moving through the L1-L5 pipeline. Gate forms mutate
// the same row in place.
type Idea struct {
	ID               string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	Title            string  `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Category         string  `gorm:"column:category;type:varchar(32);not null;index" json:"category"`
	Priority         string  `gorm:"column:priority;type:varchar(16);not null;default:medium" json:"priority"`
	Description      *string `gorm:"column:description;type:text" json:"description,omitempty"`
	ProblemStatement *string `gorm:"column:problem_statement;type:text" json:"problem_statement,omitempty"`
	ProposedSolution *string `gorm:"column:proposed_solution;type:text" json:"proposed_solution,omitempty"`
	ExpectedBenefits *string `gorm:"column:expected_benefits;type:text" json:"expected_benefits,omitempty"`
	Department       *string `gorm:"column:department;type:varchar(255)" json:"department,omitempty"`
	SubmittedBy      string  `gorm:"column:submitted_by;type:varchar(255);not null" json:"submitted_by"`
	SubmitterEmail   *string `gorm:"column:submitter_email;type:varchar(255)" json:"submitter_email,omitempty"`
	SubmitterUserID  *int    `gorm:"column:submitter_user_id;index" json:"submitter_user_id,omitempty"`

	EvaluationStage evaluation.Stage  `gorm:"column:evaluation_stage;type:varchar(2);not null;index:idx_ideas_pipeline" json:"evaluation_stage"`
	StageStatus     evaluation.Status `gorm:"column:stage_status;type:varchar(16);not null;index:idx_ideas_pipeline" json:"stage_status"`

	Intake    IntakeReview    `gorm:"embedded;embeddedPrefix:l1_" json:"l1_intake"`
	Screening StageScorecard  `gorm:"embedded;embeddedPrefix:l2_" json:"l2_screening"`
	Business  StageScorecard  `gorm:"embedded;embeddedPrefix:l3_" json:"l3_business_case"`
	Financial FinancialBlock  `gorm:"embedded" json:"financials"`
	Feasible  StageScorecard  `gorm:"embedded;embeddedPrefix:l4_" json:"l4_feasibility"`
	Executive ExecutiveReview `gorm:"embedded;embeddedPrefix:l5_" json:"l5_executive"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Idea) TableName() string { return "ideas" }

// IntakeReview is the L1 accept/reject record.
type IntakeReview struct {
	Reviewer    *string    `gorm:"column:reviewer;type:varchar(255)" json:"reviewer,omitempty"`
	Decision    *string    `gorm:"column:decision;type:varchar(16)" json:"decision,omitempty"`
	Comments    *string    `gorm:"column:comments;type:text" json:"comments,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

// StageScorecard is the per-stage rating block used by L2, L3 and L4.
type StageScorecard struct {
	Ratings      datatypes.JSON `gorm:"column:ratings;type:json" json:"ratings,omitempty"`
	OverallScore *float64       `gorm:"column:overall_score;type:decimal(4,2)" json:"overall_score,omitempty"`
	Decision     *string        `gorm:"column:decision;type:varchar(16)" json:"decision,omitempty"`
	Comments     *string        `gorm:"column:comments;type:text" json:"comments,omitempty"`
	Reviewer     *string        `gorm:"column:reviewer;type:varchar(255)" json:"reviewer,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

// FinancialBlock holds the L3 business-case money. ExpectedSavings is an
// annual figure.
type FinancialBlock struct {
	EstimatedCost       decimal.NullDecimal `gorm:"column:estimated_cost;type:decimal(14,2)" json:"estimated_cost"`
	ExpectedSavings     decimal.NullDecimal `gorm:"column:expected_savings;type:decimal(14,2)" json:"expected_savings"`
	NetSavings          decimal.NullDecimal `gorm:"column:net_savings;type:decimal(14,2)" json:"net_savings"`
	ROIPercentage       decimal.NullDecimal `gorm:"column:roi_percentage;type:decimal(20,2)" json:"roi_percentage"`
	PaybackPeriodMonths decimal.NullDecimal `gorm:"column:payback_period_months;type:decimal(20,1)" json:"payback_period_months"`
	Capex               decimal.NullDecimal `gorm:"column:capex;type:decimal(14,2)" json:"capex"`
	Opex                decimal.NullDecimal `gorm:"column:opex;type:decimal(14,2)" json:"opex"`
	HeadcountImpact     *int                `gorm:"column:headcount_impact" json:"headcount_impact"`
}

// ExecutiveReview is the L5 decision. StrategicScore is audit only.
type ExecutiveReview struct {
	StrategicScore *float64   `gorm:"column:strategic_score;type:decimal(4,2)" json:"strategic_score,omitempty"`
	Decision       *string    `gorm:"column:decision;type:varchar(16)" json:"decision,omitempty"`
	Comments       *string    `gorm:"column:comments;type:text" json:"comments,omitempty"`
	Approver       *string    `gorm:"column:approver;type:varchar(255)" json:"approver,omitempty"`
	DecidedAt      *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
}

// Position implements evaluation.Subject.
func (i *Idea) Position() (evaluation.Stage, evaluation.Status) {
	return i.EvaluationStage, i.StageStatus
}

// SetPosition implements evaluation.Subject.
func (i *Idea) SetPosition(stage evaluation.Stage, status evaluation.Status) {
	i.EvaluationStage = stage
	i.StageStatus = status
}

// Record writes a gate outcome onto the block of the stage it belongs to.
func (i *Idea) Record(out evaluation.Outcome) {
	decision := string(out.Evaluation.Decision)
	completed := out.CompletedAt

	switch out.Evaluation.Stage {
	case evaluation.StageL1:
		i.Intake = IntakeReview{
			Reviewer:    strPtr(out.Reviewer),
			Decision:    &decision,
			Comments:    strPtr(out.Comments),
			CompletedAt: &completed,
		}
	case evaluation.StageL2:
		i.Screening = scorecard(out, decision, completed)
	case evaluation.StageL3:
		i.Business = scorecard(out, decision, completed)
		if f := out.Evaluation.Financials; f != nil {
			i.Financial = FinancialBlock{
				EstimatedCost:       decimal.NewNullDecimal(f.EstimatedCost),
				ExpectedSavings:     decimal.NewNullDecimal(f.ExpectedSavings),
				NetSavings:          decimal.NewNullDecimal(f.NetSavings),
				ROIPercentage:       decimal.NewNullDecimal(f.ROIPercent),
				PaybackPeriodMonths: f.PaybackMonths,
				Capex:               out.Capex,
				Opex:                out.Opex,
				HeadcountImpact:     out.HeadcountImpact,
			}
		}
	case evaluation.StageL4:
		i.Feasible = scorecard(out, decision, completed)
	case evaluation.StageL5:
		i.Executive = ExecutiveReview{
			StrategicScore: out.OverallScore,
			Decision:       &decision,
			Comments:       strPtr(out.Comments),
			Approver:       strPtr(out.Reviewer),
			DecidedAt:      &completed,
		}
	}
}

func scorecard(out evaluation.Outcome, decision string, completed time.Time) StageScorecard {
	card := StageScorecard{
		OverallScore: out.OverallScore,
		Decision:     &decision,
		Comments:     strPtr(out.Comments),
		Reviewer:     strPtr(out.Reviewer),
		CompletedAt:  &completed,
	}
	if len(out.Ratings) > 0 {
		if raw, err := json.Marshal(out.Ratings); err == nil {
			card.Ratings = datatypes.JSON(raw)
		}
	}
	return card
}

// RatingsOf decodes a stored scorecard's ratings.
func (c StageScorecard) RatingsOf() (evaluation.RatingSet, error) {
	if len(c.Ratings) == 0 {
		return nil, nil
	}
	var set evaluation.RatingSet
	if err := json.Unmarshal(c.Ratings, &set); err != nil {
		return nil, err
	}
	return set, nil
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
