package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
	"idea-portfolio-api/utils"
)

// PolicySource yields the gate table in force.
type PolicySource interface {
	Effective(ctx context.Context) (evaluation.PolicyTable, error)
}

// IdeaInput is the submitter-editable part of an idea.
type IdeaInput struct {
	Title            string
	Category         string
	Priority         string
	Description      *string
	ProblemStatement *string
	ProposedSolution *string
	ExpectedBenefits *string
	Department       *string
	SubmittedBy      string
	SubmitterEmail   *string
	SubmitterUserID  *int
}

// IdeaPatch updates free-text fields only. Nil fields are left unchanged.
type IdeaPatch struct {
	Title            *string
	Category         *string
	Priority         *string
	Description      *string
	ProblemStatement *string
	ProposedSolution *string
	ExpectedBenefits *string
	Department       *string
	SubmitterEmail   *string
}

// IdeaEditor is the user behind an Update. Privileged editors (reviewers,
// admins) may change any idea; others only the ideas they submitted.
type IdeaEditor struct {
	UserID     uint
	Privileged bool
}

// IdeaFilter narrows List. Zero values mean no filter.
type IdeaFilter struct {
	Stage    evaluation.Stage
	Status   evaluation.Status
	Category string
	Priority string
	Query    string
	Limit    int
	Offset   int
}

type IdeaService struct {
	db       *gorm.DB
	policy   PolicySource
	notifier Notifier
	now      func() time.Time
}

func NewIdeaService(db *gorm.DB, policy PolicySource, notifier Notifier) *IdeaService {
	if db == nil {
		db = config.DB
	}
	if policy == nil {
		policy = NewPolicyService(db)
	}
	return &IdeaService{db: db, policy: policy, notifier: notifier, now: time.Now}
}

func fieldError(field, message string) error {
	return &evaluation.ValidationError{Field: field, Message: message}
}

// Create stores a new idea at L1 pending.
func (s *IdeaService) Create(ctx context.Context, in IdeaInput) (*models.Idea, error) {
	title := utils.SanitizeInput(in.Title)
	if title == "" {
		return nil, fieldError("title", "is required")
	}
	submittedBy := utils.SanitizeInput(in.SubmittedBy)
	if submittedBy == "" {
		return nil, fieldError("submitted_by", "is required")
	}
	category, err := utils.ParseCategory(in.Category)
	if err != nil {
		return nil, fieldError("category", err.Error())
	}
	priority, err := utils.ParsePriority(in.Priority)
	if err != nil {
		return nil, fieldError("priority", err.Error())
	}
	if in.SubmitterEmail != nil && !utils.ValidateEmail(*in.SubmitterEmail) {
		return nil, fieldError("submitter_email", "is not a valid email address")
	}

	idea := models.Idea{
		ID:               uuid.NewString(),
		Title:            title,
		Category:         category,
		Priority:         priority,
		Description:      in.Description,
		ProblemStatement: in.ProblemStatement,
		ProposedSolution: in.ProposedSolution,
		ExpectedBenefits: in.ExpectedBenefits,
		Department:       in.Department,
		SubmittedBy:      submittedBy,
		SubmitterEmail:   in.SubmitterEmail,
		SubmitterUserID:  in.SubmitterUserID,
		EvaluationStage:  evaluation.StageL1,
		StageStatus:      evaluation.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&idea).Error; err != nil {
		return nil, fmt.Errorf("create idea: %w", err)
	}
	return &idea, nil
}

// Get loads one idea.
func (s *IdeaService) Get(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&idea).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("load idea %s: %w", id, err)
	}
	return &idea, nil
}

// List returns a page of ideas, newest first, and the filtered total.
func (s *IdeaService) List(ctx context.Context, f IdeaFilter) ([]models.Idea, int64, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := filterIdeas(s.db.WithContext(ctx), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Idea
	if err := q.Order("created_at DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func filterIdeas(db *gorm.DB, f IdeaFilter) *gorm.DB {
	q := db.Model(&models.Idea{})
	if f.Stage != "" {
		q = q.Where("evaluation_stage = ?", f.Stage)
	}
	if f.Status != "" {
		q = q.Where("stage_status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where("(title LIKE ? OR description LIKE ? OR submitted_by LIKE ?)", like, like, like)
	}
	return q
}

// Update applies a patch to the free-text fields. Workflow fields are never
// touched here.
func (s *IdeaService) Update(ctx context.Context, id string, p IdeaPatch, editor IdeaEditor) (*models.Idea, error) {
	if err := s.authorizeEdit(ctx, id, editor); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if p.Title != nil {
		title := utils.SanitizeInput(*p.Title)
		if title == "" {
			return nil, fieldError("title", "must not be empty")
		}
		updates["title"] = title
	}
	if p.Category != nil {
		category, err := utils.ParseCategory(*p.Category)
		if err != nil {
			return nil, fieldError("category", err.Error())
		}
		updates["category"] = category
	}
	if p.Priority != nil {
		priority, err := utils.ParsePriority(*p.Priority)
		if err != nil {
			return nil, fieldError("priority", err.Error())
		}
		updates["priority"] = priority
	}
	if p.SubmitterEmail != nil {
		if *p.SubmitterEmail != "" && !utils.ValidateEmail(*p.SubmitterEmail) {
			return nil, fieldError("submitter_email", "is not a valid email address")
		}
		updates["submitter_email"] = utils.OptionalString(*p.SubmitterEmail)
	}
	setText := func(column string, v *string) {
		if v != nil {
			updates[column] = utils.OptionalString(*v)
		}
	}
	setText("description", p.Description)
	setText("problem_statement", p.ProblemStatement)
	setText("proposed_solution", p.ProposedSolution)
	setText("expected_benefits", p.ExpectedBenefits)
	setText("department", p.Department)

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Idea{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update idea %s: %w", id, res.Error)
		}
	}
	return s.Get(ctx, id)
}

func (s *IdeaService) authorizeEdit(ctx context.Context, id string, editor IdeaEditor) error {
	if editor.Privileged {
		return nil
	}
	var owner struct {
		SubmitterUserID *int
	}
	err := s.db.WithContext(ctx).Model(&models.Idea{}).
		Select("submitter_user_id").
		Where("id = ?", id).
		Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrIdeaNotFound
	}
	if err != nil {
		return fmt.Errorf("load idea %s: %w", id, err)
	}
	if owner.SubmitterUserID == nil || editor.UserID == 0 || uint(*owner.SubmitterUserID) != editor.UserID {
		return ErrIdeaEditForbidden
	}
	return nil
}

// Delete soft-deletes an idea. History rows are kept.
func (s *IdeaService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Idea{})
	if res.Error != nil {
		return fmt.Errorf("delete idea %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

// History returns the stage log of an idea, oldest first.
func (s *IdeaService) History(ctx context.Context, id string) ([]models.IdeaStageHistory, error) {
	var rows []models.IdeaStageHistory
	if err := s.db.WithContext(ctx).
		Where("idea_id = ?", id).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load history for %s: %w", id, err)
	}
	return rows, nil
}

// Evaluate runs a stage command against an idea. The idea row is locked for
// the duration, so a concurrent submission sees the new position and fails
// with a stage conflict. The idea update and the history insert commit
// together.
func (s *IdeaService) Evaluate(ctx context.Context, id string, cmd evaluation.Command, actorUserID *int) (*models.Idea, *models.IdeaStageHistory, error) {
	table, err := s.policy.Effective(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load gate policy: %w", err)
	}

	var (
		idea models.Idea
		row  models.IdeaStageHistory
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&idea).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIdeaNotFound
			}
			return fmt.Errorf("lock idea %s: %w", id, err)
		}

		_, entry, err := evaluation.Run(&idea, cmd, table, s.now())
		if err != nil {
			return err
		}

		if err := tx.Save(&idea).Error; err != nil {
			return fmt.Errorf("update idea %s: %w", id, err)
		}

		row = models.NewIdeaStageHistory(idea.ID, entry, actorUserID)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("append history for %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("idea %s: %s %s/%s -> %s/%s by %s", idea.ID, row.Decision, row.FromStage, row.FromStatus, row.ToStage, row.ToStatus, row.ChangedBy)

	if s.notifier != nil {
		go s.notifier.StageChanged(persistentContext(ctx), idea, row)
	}
	return &idea, &row, nil
}
