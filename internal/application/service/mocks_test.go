package service

import (
	"context"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

// testLogger discards all output.
type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockExpenseRepo is an in-memory port.ExpenseRepository with overridable
// behavior.
type mockExpenseRepo struct {
	items      []*entity.ExpenseItem
	createFunc func(ctx context.Context, item *entity.ExpenseItem) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, item *entity.ExpenseItem) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, item)
	}
	m.items = append(m.items, item)
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id string) (*entity.ExpenseItem, error) {
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (m *mockExpenseRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.ExpenseItem, error) {
	var out []*entity.ExpenseItem
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id string) error {
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockExpenseRepo) DeleteByUser(ctx context.Context, userID int64) error {
	var kept []*entity.ExpenseItem
	for _, item := range m.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}

// mockClaimRepo is an in-memory port.ClaimRepository.
type mockClaimRepo struct {
	claims           []*entity.Claim
	createFunc       func(ctx context.Context, claim *entity.Claim) error
	updateStatusFunc func(ctx context.Context, id, status, comment string) error
}

func (m *mockClaimRepo) Create(ctx context.Context, claim *entity.Claim) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, claim)
	}
	m.claims = append(m.claims, claim)
	return nil
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	for _, claim := range m.claims {
		if claim.ID == id {
			return claim, nil
		}
	}
	return nil, nil
}

func (m *mockClaimRepo) List(ctx context.Context) ([]*entity.Claim, error) {
	return m.claims, nil
}

func (m *mockClaimRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]*entity.Claim, error) {
	var out []*entity.Claim
	for _, claim := range m.claims {
		if claim.EmployeeID == employeeID {
			out = append(out, claim)
		}
	}
	return out, nil
}

func (m *mockClaimRepo) UpdateStatus(ctx context.Context, id, status, comment string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, comment)
	}
	for _, claim := range m.claims {
		if claim.ID == id {
			claim.Status = status
			claim.ReviewComment = comment
		}
	}
	return nil
}

// mockSequenceRepo hands out sequential claim numbers per year.
type mockSequenceRepo struct {
	counters map[int]int64
}

func (m *mockSequenceRepo) Next(ctx context.Context, year int) (int64, error) {
	if m.counters == nil {
		m.counters = make(map[int]int64)
	}
	m.counters[year]++
	return m.counters[year], nil
}

// mockTxManager runs the function without a real transaction.
type mockTxManager struct{}

func (mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
