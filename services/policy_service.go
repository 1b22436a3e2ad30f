package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
)

var (
	policyCacheMu sync.RWMutex
	policyCache   *policyCacheEntry
	policyTTL     = 5 * time.Minute
)

type policyCacheEntry struct {
	overrides []models.StagePolicy
	fetchedAt time.Time
}

// PolicyService layers stored threshold overrides on top of the table loaded
// from the policy file.
type PolicyService struct {
	db   *gorm.DB
	base func() evaluation.PolicyTable
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	if db == nil {
		db = config.DB
	}
	return &PolicyService{
		db:   db,
		base: func() evaluation.PolicyTable { return config.Policy },
	}
}

func (s *PolicyService) loadOverrides(ctx context.Context, force bool) (*policyCacheEntry, error) {
	policyCacheMu.RLock()
	cached := policyCache
	policyCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < policyTTL {
		return cached, nil
	}

	policyCacheMu.Lock()
	defer policyCacheMu.Unlock()

	if policyCache != nil && !force && time.Since(policyCache.fetchedAt) < policyTTL {
		return policyCache, nil
	}

	var rows []models.StagePolicy
	if err := s.db.WithContext(ctx).Order("stage").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load stage policies: %w", err)
	}

	entry := &policyCacheEntry{overrides: rows, fetchedAt: time.Now()}
	policyCache = entry
	return entry, nil
}

// ClearPolicyCache invalidates the in-memory override cache.
func ClearPolicyCache() {
	policyCacheMu.Lock()
	defer policyCacheMu.Unlock()
	policyCache = nil
}

// Effective returns the gate table in force. A stored override that no
// longer validates is logged and skipped.
func (s *PolicyService) Effective(ctx context.Context) (evaluation.PolicyTable, error) {
	entry, err := s.loadOverrides(ctx, false)
	if err != nil {
		return nil, err
	}

	table := s.base()
	for _, o := range entry.overrides {
		next, err := table.WithThreshold(o.Stage, o.Threshold)
		if err != nil {
			log.Printf("policy: ignoring stored override for %s: %v", o.Stage, err)
			continue
		}
		table = next
	}
	return table, nil
}

// Overrides lists the stored threshold overrides.
func (s *PolicyService) Overrides(ctx context.Context) ([]models.StagePolicy, error) {
	entry, err := s.loadOverrides(ctx, false)
	if err != nil {
		return nil, err
	}
	return entry.overrides, nil
}

// SetOverride stores a threshold for a numeric gate and returns the new
// effective table.
func (s *PolicyService) SetOverride(ctx context.Context, stage evaluation.Stage, threshold float64, userID *int) (evaluation.PolicyTable, error) {
	current, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := current.WithThreshold(stage, threshold); err != nil {
		return nil, err
	}

	row := models.StagePolicy{Stage: stage, Threshold: threshold, UpdatedBy: userID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stage"}},
		DoUpdates: clause.AssignmentColumns([]string{"threshold", "updated_by", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save stage policy %s: %w", stage, err)
	}

	ClearPolicyCache()
	log.Printf("policy: %s threshold set to %.2f", stage, threshold)
	return s.Effective(ctx)
}
