package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

var (
	adminUser   = &entity.User{ID: 7, Name: "Karen Lim", OfficeCode: "SIN", Role: entity.RoleAdmin}
	financeUser = &entity.User{ID: 9, Name: "Ong Yongle", OfficeCode: "SIN", Role: entity.RoleFinance}
)

type claimFixture struct {
	svc         ClaimService
	claimRepo   *mockClaimRepo
	expenseRepo *mockExpenseRepo
}

func newClaimFixture() *claimFixture {
	claimRepo := &mockClaimRepo{}
	expenseRepo := &mockExpenseRepo{}
	svc := NewClaimService(claimRepo, expenseRepo, &mockSequenceRepo{}, mockTxManager{}, testLogger{})
	return &claimFixture{svc: svc, claimRepo: claimRepo, expenseRepo: expenseRepo}
}

func (f *claimFixture) stage(t *testing.T, user *entity.User, amount int64, old bool) {
	t.Helper()
	err := f.expenseRepo.Create(context.Background(), &entity.ExpenseItem{
		ID:                 fmt.Sprintf("item-%d", len(f.expenseRepo.items)+1),
		UserID:             user.ID,
		Ref:                fmt.Sprintf("C%d", len(f.expenseRepo.items)+1),
		Merchant:           "City Taxi",
		Amount:             decimal.NewFromInt(amount),
		Currency:           "AED",
		Date:               time.Now().AddDate(0, 0, -1),
		Category:           entity.CategoryTravel,
		Subcategory:        "Taxis",
		Description:        "Airport transfer",
		OlderThanTwoMonths: old,
		Status:             entity.StatusDraft,
		CreatedAt:          time.Now(),
	})
	require.NoError(t, err)
}

func TestSubmit(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, false)
	f.stage(t, dubaiEmployee, 30, false)

	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	assert.True(t, claim.Total.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 2, claim.ItemCount)
	assert.Equal(t, entity.StatusPendingAdmin, claim.Status)
	assert.Equal(t, "Dubai", claim.Office)
	assert.Equal(t, "AED", claim.Currency)
	assert.Empty(t, claim.Flags)
	assert.Len(t, claim.Items, 2)

	expected := fmt.Sprintf("EXP-%d-001", time.Now().Year())
	assert.Equal(t, expected, claim.DisplayID)

	// Staging is cleared by submission.
	staged, err := f.expenseRepo.ListByUser(ctx, dubaiEmployee.ID)
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestSubmit_EmptyStaging(t *testing.T) {
	f := newClaimFixture()

	_, err := f.svc.Submit(context.Background(), dubaiEmployee)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.claimRepo.claims)
}

func TestSubmit_SequentialDisplayIDs(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 10, false)
	first, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	f.stage(t, dubaiEmployee, 20, false)
	second, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("EXP-%d-001", year), first.DisplayID)
	assert.Equal(t, fmt.Sprintf("EXP-%d-002", year), second.DisplayID)
}

func TestSubmit_FlagsOldExpenses(t *testing.T) {
	f := newClaimFixture()

	f.stage(t, dubaiEmployee, 50, false)
	f.stage(t, dubaiEmployee, 30, true)

	claim, err := f.svc.Submit(context.Background(), dubaiEmployee)
	require.NoError(t, err)
	require.Len(t, claim.Flags, 1)
	assert.Equal(t, entity.FlagOldExpenses, claim.Flags[0])
}

func TestApprovalChain(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, false)
	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	claim, err = f.svc.Approve(ctx, adminUser, claim.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingFinance, claim.Status)

	claim, err = f.svc.Approve(ctx, financeUser, claim.ID, "ok to pay")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, claim.Status)
	assert.Equal(t, "ok to pay", claim.ReviewComment)
}

func TestApprove_FinanceCannotSkipAdminStage(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, false)
	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, financeUser, claim.ID, "")
	assert.ErrorIs(t, err, ErrState)

	stored, err := f.claimRepo.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingAdmin, stored.Status)
}

func TestApprove_EmployeeForbidden(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, false)
	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, dubaiEmployee, claim.ID, "")
	assert.ErrorIs(t, err, ErrPermission)
}

func TestApprove_UnknownClaim(t *testing.T) {
	f := newClaimFixture()

	_, err := f.svc.Approve(context.Background(), adminUser, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReject(t *testing.T) {
	tests := []struct {
		name  string
		actor *entity.User
		setup func(t *testing.T, f *claimFixture, ctx context.Context, id string)
	}{
		{"admin rejects pending_admin", adminUser, nil},
		{"finance rejects pending_admin", financeUser, nil},
		{"finance rejects pending_finance", financeUser, func(t *testing.T, f *claimFixture, ctx context.Context, id string) {
			_, err := f.svc.Approve(ctx, adminUser, id, "")
			require.NoError(t, err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClaimFixture()
			ctx := context.Background()

			f.stage(t, dubaiEmployee, 50, false)
			claim, err := f.svc.Submit(ctx, dubaiEmployee)
			require.NoError(t, err)

			if tt.setup != nil {
				tt.setup(t, f, ctx, claim.ID)
			}

			claim, err = f.svc.Reject(ctx, tt.actor, claim.ID, "missing receipts")
			require.NoError(t, err)
			assert.Equal(t, entity.StatusRejected, claim.Status)
			assert.Equal(t, "missing receipts", claim.ReviewComment)
		})
	}
}

func TestTerminalStatesRefuseTransitions(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	f.stage(t, dubaiEmployee, 50, false)
	claim, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	_, err = f.svc.Reject(ctx, financeUser, claim.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, financeUser, claim.ID, "")
	assert.ErrorIs(t, err, ErrState)
	_, err = f.svc.Reject(ctx, adminUser, claim.ID, "")
	assert.ErrorIs(t, err, ErrState)
}

func TestClaimVisibility(t *testing.T) {
	f := newClaimFixture()
	ctx := context.Background()

	kate := &entity.User{ID: 2, Name: "Kate Tai", OfficeCode: "HKG", Role: entity.RoleEmployee}

	f.stage(t, dubaiEmployee, 50, false)
	mine, err := f.svc.Submit(ctx, dubaiEmployee)
	require.NoError(t, err)

	f.stage(t, kate, 30, false)
	_, err = f.svc.Submit(ctx, kate)
	require.NoError(t, err)

	// Employees see only their own claims.
	claims, err := f.svc.List(ctx, dubaiEmployee)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, dubaiEmployee.ID, claims[0].EmployeeID)

	_, err = f.svc.Get(ctx, kate, mine.ID)
	assert.ErrorIs(t, err, ErrPermission)

	// Reviewers see everything.
	claims, err = f.svc.List(ctx, adminUser)
	require.NoError(t, err)
	assert.Len(t, claims, 2)

	got, err := f.svc.Get(ctx, financeUser, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)
}
