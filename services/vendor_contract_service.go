package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
	"idea-portfolio-api/utils"
)

var contractStatuses = []string{models.ContractDraft, models.ContractActive, models.ContractExpired, models.ContractTerminated}

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// VendorContractInput is the writable part of a contract. On update, nil
// pointers leave the column unchanged.
type VendorContractInput struct {
	ProjectID      *uint
	VendorName     *string
	ContractNumber *string
	ContractValue  *decimal.Decimal
	StartDate      *time.Time
	EndDate        *time.Time
	Status         *string
	ContactName    *string
	ContactEmail   *string
	ContactPhone   *string
	Notes          *string
}

type VendorContractService struct {
	db *gorm.DB
}

func NewVendorContractService(db *gorm.DB) *VendorContractService {
	if db == nil {
		db = config.DB
	}
	return &VendorContractService{db: db}
}

// List returns contracts, optionally filtered by project and status.
func (s *VendorContractService) List(ctx context.Context, projectID *uint, status string, limit, offset int) ([]models.VendorContract, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.WithContext(ctx).Model(&models.VendorContract{})
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	if status != "" {
		v, ok := utils.OneOf(status, contractStatuses...)
		if !ok {
			return nil, 0, fieldError("status", "must be one of "+strings.Join(contractStatuses, ", "))
		}
		q = q.Where("status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.VendorContract
	if err := q.Order("created_at DESC, contract_id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *VendorContractService) Get(ctx context.Context, id uint) (*models.VendorContract, error) {
	var c models.VendorContract
	if err := s.db.WithContext(ctx).Preload("Project").Where("contract_id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *VendorContractService) Create(ctx context.Context, in VendorContractInput) (*models.VendorContract, error) {
	if in.VendorName == nil || utils.SanitizeInput(*in.VendorName) == "" {
		return nil, fieldError("vendor_name", "is required")
	}
	if in.ContractNumber == nil || utils.SanitizeInput(*in.ContractNumber) == "" {
		return nil, fieldError("contract_number", "is required")
	}

	c := models.VendorContract{Status: models.ContractDraft}
	if err := s.apply(ctx, &c, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, translateContractError(err)
	}
	return &c, nil
}

func (s *VendorContractService) Update(ctx context.Context, id uint, in VendorContractInput) (*models.VendorContract, error) {
	var c models.VendorContract
	if err := s.db.WithContext(ctx).Where("contract_id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	if err := s.apply(ctx, &c, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit("Project").Save(&c).Error; err != nil {
		return nil, translateContractError(err)
	}
	return &c, nil
}

func (s *VendorContractService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("contract_id = ?", id).Delete(&models.VendorContract{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContractNotFound
	}
	return nil
}

func (s *VendorContractService) apply(ctx context.Context, c *models.VendorContract, in VendorContractInput) error {
	if in.VendorName != nil {
		name := utils.SanitizeInput(*in.VendorName)
		if name == "" {
			return fieldError("vendor_name", "must not be empty")
		}
		c.VendorName = name
	}
	if in.ContractNumber != nil {
		number := utils.SanitizeInput(*in.ContractNumber)
		if number == "" {
			return fieldError("contract_number", "must not be empty")
		}
		c.ContractNumber = number
	}
	if in.Status != nil {
		v, ok := utils.OneOf(*in.Status, contractStatuses...)
		if !ok {
			return fieldError("status", "must be one of "+strings.Join(contractStatuses, ", "))
		}
		c.Status = v
	}
	if in.ContractValue != nil {
		if err := evaluation.ValidateAmount("contract_value", *in.ContractValue); err != nil {
			return err
		}
		c.ContractValue = decimal.NewNullDecimal(*in.ContractValue)
	}
	if in.StartDate != nil {
		c.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		c.EndDate = in.EndDate
	}
	if err := checkDateRange(c.StartDate, c.EndDate); err != nil {
		return err
	}
	if in.ContactEmail != nil {
		email := strings.TrimSpace(*in.ContactEmail)
		if email != "" && !utils.ValidateEmail(email) {
			return fieldError("contact_email", "is not a valid email address")
		}
		c.ContactEmail = utils.OptionalString(email)
	}
	if in.ContactName != nil {
		c.ContactName = utils.OptionalString(*in.ContactName)
	}
	if in.ContactPhone != nil {
		c.ContactPhone = utils.OptionalString(*in.ContactPhone)
	}
	if in.Notes != nil {
		c.Notes = utils.OptionalString(*in.Notes)
	}
	if in.ProjectID != nil {
		if *in.ProjectID == 0 {
			c.ProjectID = nil
			return nil
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("project_id = ?", *in.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrProjectNotFound
		}
		projectID := *in.ProjectID
		c.ProjectID = &projectID
	}
	return nil
}

func translateContractError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrDuplicateContract
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateContract
	}
	return fmt.Errorf("save vendor contract: %w", err)
}
