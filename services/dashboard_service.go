package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
)

// PipelineCell is the idea count at one (stage, status).
type PipelineCell struct {
	Stage  evaluation.Stage  `json:"stage"`
	Status evaluation.Status `json:"status"`
	Total  int64             `json:"total"`
}

// PipelineSummary backs the idea pipeline dashboard.
type PipelineSummary struct {
	Cells           []PipelineCell      `json:"cells"`
	ByStage         map[string]int64    `json:"by_stage"`
	TotalIdeas      int64               `json:"total_ideas"`
	AvgL2Score      *float64            `json:"avg_l2_score"`
	AvgL3Score      *float64            `json:"avg_l3_score"`
	AvgL4Score      *float64            `json:"avg_l4_score"`
	AvgROI          *float64            `json:"avg_roi_percentage"`
	ApprovedSavings decimal.NullDecimal `json:"approved_expected_savings"`
	ApprovedNet     decimal.NullDecimal `json:"approved_net_savings"`
}

// PortfolioSummary backs the project portfolio dashboard.
type PortfolioSummary struct {
	ProjectsByStatus  map[string]int64    `json:"projects_by_status"`
	TotalBudget       decimal.NullDecimal `json:"total_budget"`
	ActiveContracts   int64               `json:"active_contracts"`
	ContractValue     decimal.NullDecimal `json:"active_contract_value"`
	OverdueMilestones int64               `json:"overdue_milestones"`
}

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	if db == nil {
		db = config.DB
	}
	return &DashboardService{db: db, now: time.Now}
}

func (s *DashboardService) Pipeline(ctx context.Context) (*PipelineSummary, error) {
	db := s.db.WithContext(ctx)

	var cells []PipelineCell
	if err := db.Model(&models.Idea{}).
		Select("evaluation_stage AS stage, stage_status AS status, COUNT(*) AS total").
		Group("evaluation_stage, stage_status").
		Order("evaluation_stage, stage_status").
		Scan(&cells).Error; err != nil {
		return nil, err
	}

	out := &PipelineSummary{Cells: cells, ByStage: make(map[string]int64, len(evaluation.Stages))}
	for _, stage := range evaluation.Stages {
		out.ByStage[string(stage)] = 0
	}
	for _, c := range cells {
		out.ByStage[string(c.Stage)] += c.Total
		out.TotalIdeas += c.Total
	}

	var avg struct {
		L2  *float64
		L3  *float64
		L4  *float64
		ROI *float64
	}
	if err := db.Model(&models.Idea{}).
		Select("AVG(l2_overall_score) AS l2, AVG(l3_overall_score) AS l3, AVG(l4_overall_score) AS l4, AVG(roi_percentage) AS roi").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	out.AvgL2Score, out.AvgL3Score, out.AvgL4Score, out.AvgROI = roundPtr(avg.L2), roundPtr(avg.L3), roundPtr(avg.L4), roundPtr(avg.ROI)

	var approved struct {
		Savings decimal.NullDecimal
		Net     decimal.NullDecimal
	}
	if err := db.Model(&models.Idea{}).
		Select("SUM(expected_savings) AS savings, SUM(net_savings) AS net").
		Where("stage_status = ?", evaluation.StatusApproved).
		Scan(&approved).Error; err != nil {
		return nil, err
	}
	out.ApprovedSavings, out.ApprovedNet = approved.Savings, approved.Net
	return out, nil
}

func (s *DashboardService) Portfolio(ctx context.Context) (*PortfolioSummary, error) {
	db := s.db.WithContext(ctx)

	var rows []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&models.Project{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := &PortfolioSummary{ProjectsByStatus: make(map[string]int64, len(rows))}
	for _, r := range rows {
		out.ProjectsByStatus[r.Status] = r.Total
	}

	var budget struct{ Total decimal.NullDecimal }
	if err := db.Model(&models.Project{}).
		Select("SUM(budget) AS total").
		Where("status <> ?", models.ProjectCancelled).
		Scan(&budget).Error; err != nil {
		return nil, err
	}
	out.TotalBudget = budget.Total

	var contracts struct {
		Total int64
		Value decimal.NullDecimal
	}
	if err := db.Model(&models.VendorContract{}).
		Select("COUNT(*) AS total, SUM(contract_value) AS value").
		Where("status = ?", models.ContractActive).
		Scan(&contracts).Error; err != nil {
		return nil, err
	}
	out.ActiveContracts, out.ContractValue = contracts.Total, contracts.Value

	if err := db.Model(&models.Milestone{}).
		Where("due_date < ? AND status <> ?", s.now().Format("2006-01-02"), models.MilestoneCompleted).
		Count(&out.OverdueMilestones).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := evaluation.RoundScore(*v)
	return &r
}
