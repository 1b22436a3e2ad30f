package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
	"idea-portfolio-api/utils"
)

var (
	projectStatuses   = []string{models.ProjectPlanning, models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted, models.ProjectCancelled}
	milestoneStatuses = []string{models.MilestonePending, models.MilestoneInProgress, models.MilestoneCompleted, models.MilestoneDelayed}
)

// ProjectInput is the writable part of a project. On update, nil pointers
// leave the column unchanged.
type ProjectInput struct {
	IdeaID      *string
	Name        *string
	Description *string
	Owner       *string
	Status      *string
	Priority    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *decimal.Decimal
	CreatedBy   *int
}

// MilestoneInput is the writable part of a milestone.
type MilestoneInput struct {
	Title       *string
	Description *string
	Owner       *string
	DueDate     *time.Time
	Status      *string
}

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	if db == nil {
		db = config.DB
	}
	return &ProjectService{db: db}
}

func normalizeProjectStatus(raw string) (string, error) {
	if v, ok := utils.OneOf(strings.ReplaceAll(raw, "-", "_"), projectStatuses...); ok {
		return v, nil
	}
	return "", fieldError("status", "must be one of "+strings.Join(projectStatuses, ", "))
}

func normalizeMilestoneStatus(raw string) (string, error) {
	if v, ok := utils.OneOf(strings.ReplaceAll(raw, "-", "_"), milestoneStatuses...); ok {
		return v, nil
	}
	return "", fieldError("status", "must be one of "+strings.Join(milestoneStatuses, ", "))
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fieldError("end_date", "must not be before start_date")
	}
	return nil
}

// List returns projects, optionally filtered by status.
func (s *ProjectService) List(ctx context.Context, status string, limit, offset int) ([]models.Project, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.WithContext(ctx).Model(&models.Project{})
	if status != "" {
		normalized, err := normalizeProjectStatus(status)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where("status = ?", normalized)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Project
	if err := q.Order("created_at DESC, project_id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get loads a project with its milestones.
func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	err := s.db.WithContext(ctx).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("due_date ASC, milestone_id ASC") }).
		Where("project_id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create stores a project. An idea link must point at an idea approved at L5.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if in.Name == nil || utils.SanitizeInput(*in.Name) == "" {
		return nil, fieldError("name", "is required")
	}
	p := models.Project{
		Name:      utils.SanitizeInput(*in.Name),
		Status:    models.ProjectPlanning,
		Priority:  utils.PriorityMedium,
		CreatedBy: in.CreatedBy,
	}
	if err := s.apply(ctx, &p, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

// Update changes the given fields of a project.
func (s *ProjectService) Update(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).Where("project_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if in.Name != nil {
		name := utils.SanitizeInput(*in.Name)
		if name == "" {
			return nil, fieldError("name", "must not be empty")
		}
		p.Name = name
	}
	if err := s.apply(ctx, &p, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	return &p, nil
}

func (s *ProjectService) apply(ctx context.Context, p *models.Project, in ProjectInput) error {
	if in.Status != nil {
		status, err := normalizeProjectStatus(*in.Status)
		if err != nil {
			return err
		}
		p.Status = status
	}
	if in.Priority != nil {
		priority, err := utils.ParsePriority(*in.Priority)
		if err != nil {
			return fieldError("priority", err.Error())
		}
		p.Priority = priority
	}
	if in.Description != nil {
		p.Description = utils.OptionalString(*in.Description)
	}
	if in.Owner != nil {
		p.Owner = utils.OptionalString(*in.Owner)
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}
	if err := checkDateRange(p.StartDate, p.EndDate); err != nil {
		return err
	}
	if in.Budget != nil {
		if err := evaluation.ValidateAmount("budget", *in.Budget); err != nil {
			return err
		}
		p.Budget = decimal.NewNullDecimal(*in.Budget)
	}
	if in.IdeaID != nil {
		ideaID := strings.TrimSpace(*in.IdeaID)
		if ideaID == "" {
			p.IdeaID = nil
			return nil
		}
		var idea models.Idea
		if err := s.db.WithContext(ctx).Select("id", "evaluation_stage", "stage_status").
			Where("id = ?", ideaID).First(&idea).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIdeaNotFound
			}
			return err
		}
		if idea.EvaluationStage != evaluation.StageL5 || idea.StageStatus != evaluation.StatusApproved {
			return fieldError("idea_id", "only ideas approved at L5 can become projects")
		}
		p.IdeaID = &ideaID
	}
	return nil
}

// Delete soft-deletes a project.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("project_id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Milestones lists the milestones of a project by due date.
func (s *ProjectService) Milestones(ctx context.Context, projectID uint) ([]models.Milestone, error) {
	var items []models.Milestone
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("due_date ASC, milestone_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddMilestone creates a milestone under an existing project.
func (s *ProjectService) AddMilestone(ctx context.Context, projectID uint, in MilestoneInput) (*models.Milestone, error) {
	if in.Title == nil || utils.SanitizeInput(*in.Title) == "" {
		return nil, fieldError("title", "is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrProjectNotFound
	}

	m := models.Milestone{
		ProjectID: projectID,
		Title:     utils.SanitizeInput(*in.Title),
		Status:    models.MilestonePending,
	}
	if err := applyMilestone(&m, in, time.Now()); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return &m, nil
}

// UpdateMilestone changes the given fields of a milestone.
func (s *ProjectService) UpdateMilestone(ctx context.Context, id uint, in MilestoneInput) (*models.Milestone, error) {
	var m models.Milestone
	if err := s.db.WithContext(ctx).Where("milestone_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, err
	}
	if in.Title != nil {
		title := utils.SanitizeInput(*in.Title)
		if title == "" {
			return nil, fieldError("title", "must not be empty")
		}
		m.Title = title
	}
	if err := applyMilestone(&m, in, time.Now()); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, fmt.Errorf("update milestone %d: %w", id, err)
	}
	return &m, nil
}

func applyMilestone(m *models.Milestone, in MilestoneInput, now time.Time) error {
	if in.Status != nil {
		status, err := normalizeMilestoneStatus(*in.Status)
		if err != nil {
			return err
		}
		if status == models.MilestoneCompleted && m.Status != models.MilestoneCompleted {
			m.CompletedAt = &now
		}
		if status != models.MilestoneCompleted {
			m.CompletedAt = nil
		}
		m.Status = status
	}
	if in.Description != nil {
		m.Description = utils.OptionalString(*in.Description)
	}
	if in.Owner != nil {
		m.Owner = utils.OptionalString(*in.Owner)
	}
	if in.DueDate != nil {
		m.DueDate = in.DueDate
	}
	return nil
}

// DeleteMilestone removes a milestone.
func (s *ProjectService) DeleteMilestone(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("milestone_id = ?", id).Delete(&models.Milestone{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}
