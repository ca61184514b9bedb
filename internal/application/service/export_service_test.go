package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

func newExportFixture(t *testing.T) (ExportService, *claimFixture) {
	t.Helper()
	f := newClaimFixture()
	return NewExportService(f.svc, testLogger{}), f
}

func exportedWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestExportClaim(t *testing.T) {
	svc, f := newExportFixture(t)
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, false)
	f.stage(t, dubaiEmployee, 30, false)
	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	data, filename, err := svc.ExportClaim(ctx, dubaiEmployee, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.DisplayID+".xlsx", filename)

	wb := exportedWorkbook(t, data)
	assert.Equal(t, []string{"Expense Claim"}, wb.GetSheetList())

	cells := map[string]string{
		"B1":  claim.DisplayID,
		"B2":  "Chris Frame",
		"B3":  "Dubai",
		"B4":  "AED",
		"B5":  time.Now().Format("2006-01-02"),
		"B6":  "pending_admin",
		"A8":  "Ref",
		"G8":  "Amount",
		"A9":  "C1",
		"C9":  "City Taxi",
		"A10": "C2",
	}
	for cell, want := range cells {
		got, err := wb.GetCellValue("Expense Claim", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cell %s", cell)
	}

	total, err := wb.GetCellValue("Expense Claim", "G11")
	require.NoError(t, err)
	assert.Equal(t, "80", total)
}

func TestExportClaim_FlagsBelowTotal(t *testing.T) {
	svc, f := newExportFixture(t)
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, true)
	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	data, _, err := svc.ExportClaim(ctx, dubaiEmployee, claim.ID)
	require.NoError(t, err)

	wb := exportedWorkbook(t, data)
	// One item row (9), total row (10), blank row, flags start at 12.
	flag, err := wb.GetCellValue("Expense Claim", "A12")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FLAG: %s", claim.Flags[0]), flag)
}

func TestExportClaim_VisibilityEnforced(t *testing.T) {
	svc, f := newExportFixture(t)
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, false)
	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	other := &entity.User{ID: 2, Name: "Kate Tai", OfficeCode: "HKG", Role: entity.RoleEmployee}
	_, _, err = svc.ExportClaim(ctx, other, claim.ID)
	assert.ErrorIs(t, err, ErrPermission)

	_, _, err = svc.ExportClaim(ctx, adminUser, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
