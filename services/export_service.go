package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"idea-portfolio-api/config"
	"idea-portfolio-api/models"
)

var ideaExportHeaders = []string{
	"ID", "Title", "Category", "Priority", "Submitted By", "Department",
	"Stage", "Status", "L2 Score", "L3 Score", "L4 Score",
	"Estimated Cost", "Expected Savings", "Net Savings", "ROI %", "Payback (months)",
	"Executive Decision", "Created At",
}

type ExportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewExportService(db *gorm.DB) *ExportService {
	if db == nil {
		db = config.DB
	}
	return &ExportService{db: db, now: time.Now}
}

// ExportIdeas writes every idea matching f to an xlsx workbook and returns it
// with a download file name.
func (s *ExportService) ExportIdeas(ctx context.Context, f IdeaFilter) (*excelize.File, string, error) {
	var items []models.Idea
	if err := filterIdeas(s.db.WithContext(ctx), f).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, "", fmt.Errorf("list ideas: %w", err)
	}

	file := excelize.NewFile()
	sheet := "Ideas"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, _ := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range ideaExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		file.SetCellValue(sheet, cell, h)
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	total := decimal.Zero
	for i, idea := range items {
		values := ideaExportRow(idea)
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			if v == nil {
				continue
			}
			file.SetCellValue(sheet, fmt.Sprintf("%s%d", col, i+2), v)
		}
		if idea.Financial.ExpectedSavings.Valid {
			total = total.Add(idea.Financial.ExpectedSavings.Decimal)
		}
	}

	summaryRow := len(items) + 2
	summaryStyle, _ := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	file.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	file.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("%d ideas", len(items)))
	file.SetCellValue(sheet, fmt.Sprintf("M%d", summaryRow), total.InexactFloat64())
	file.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("R%d", summaryRow), summaryStyle)

	widths := []float64{38, 36, 20, 10, 20, 20, 7, 12, 9, 9, 9, 14, 16, 14, 9, 16, 18, 20}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		file.SetColWidth(sheet, col, col, w)
	}
	file.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	filename := fmt.Sprintf("ideas_%s.xlsx", s.now().Format("20060102_150405"))
	return file, filename, nil
}

func ideaExportRow(idea models.Idea) []interface{} {
	return []interface{}{
		idea.ID,
		idea.Title,
		idea.Category,
		idea.Priority,
		idea.SubmittedBy,
		derefString(idea.Department),
		string(idea.EvaluationStage),
		string(idea.StageStatus),
		derefFloat(idea.Screening.OverallScore),
		derefFloat(idea.Business.OverallScore),
		derefFloat(idea.Feasible.OverallScore),
		nullDecimalCell(idea.Financial.EstimatedCost),
		nullDecimalCell(idea.Financial.ExpectedSavings),
		nullDecimalCell(idea.Financial.NetSavings),
		nullDecimalCell(idea.Financial.ROIPercentage),
		nullDecimalCell(idea.Financial.PaybackPeriodMonths),
		derefString(idea.Executive.Decision),
		idea.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func derefString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func derefFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullDecimalCell(v decimal.NullDecimal) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Decimal.InexactFloat64()
}
