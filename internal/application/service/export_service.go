package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

// ExportService renders a claim as a spreadsheet mirroring the paper
// expense form.
type ExportService interface {
	// ExportClaim returns the workbook bytes and a suggested filename.
	ExportClaim(ctx context.Context, user *entity.User, id string) ([]byte, string, error)
}

type exportServiceImpl struct {
	claims ClaimService
	logger Logger
}

// NewExportService creates a new ExportService.
func NewExportService(claims ClaimService, logger Logger) ExportService {
	return &exportServiceImpl{claims: claims, logger: logger}
}

const exportSheet = "Expense Claim"

// ExportClaim builds the workbook: a header block, one row per item and a
// total row, with review flags appended below. Visibility follows the claim
// store rules, so employees can only export their own claims.
func (s *exportServiceImpl) ExportClaim(ctx context.Context, user *entity.User, id string) ([]byte, string, error) {
	claim, err := s.claims.Get(ctx, user, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("drop default sheet: %w", err)
	}

	s.setCell(f, "A1", "Claim Reference")
	s.setCell(f, "B1", claim.DisplayID)
	s.setCell(f, "A2", "Employee")
	s.setCell(f, "B2", claim.EmployeeName)
	s.setCell(f, "A3", "Office")
	s.setCell(f, "B3", claim.Office)
	s.setCell(f, "A4", "Currency")
	s.setCell(f, "B4", claim.Currency)
	s.setCell(f, "A5", "Submitted")
	s.setCell(f, "B5", claim.SubmittedAt.Format("2006-01-02"))
	s.setCell(f, "A6", "Status")
	s.setCell(f, "B6", claim.Status)

	headers := []string{"Ref", "Date", "Merchant", "Category", "Subcategory", "Description", "Amount", "FCY"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 8)
		s.setCell(f, cell, h)
	}

	row := 9
	for _, item := range claim.Items {
		categoryName := item.Category.String()
		if cat := entity.CategoryByCode(item.Category); cat != nil {
			categoryName = cat.Name
		}
		fcy := ""
		if item.ForeignCurrency {
			fcy = "FCY"
		}
		values := []interface{}{
			item.Ref,
			item.Date.Format("2006-01-02"),
			item.Merchant,
			categoryName,
			item.Subcategory,
			item.Description,
			item.Amount.InexactFloat64(),
			fcy,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			s.setCell(f, cell, v)
		}
		row++
	}

	s.setCell(f, fmt.Sprintf("F%d", row), "Total")
	s.setCell(f, fmt.Sprintf("G%d", row), claim.Total.InexactFloat64())
	row += 2

	for _, flag := range claim.Flags {
		s.setCell(f, fmt.Sprintf("A%d", row), "FLAG: "+flag)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("Failed to write workbook", "error", err, "claim_id", claim.ID)
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("%s.xlsx", claim.DisplayID)
	s.logger.Info("Claim exported", "claim_id", claim.ID, "filename", filename)
	return buf.Bytes(), filename, nil
}

func (s *exportServiceImpl) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(exportSheet, cell, value); err != nil {
		s.logger.Error("Failed to set cell value", "cell", cell, "error", err)
	}
}
