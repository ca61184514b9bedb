package port

import (
	"context"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

// ExpenseRepository defines persistence operations for staged expense items.
type ExpenseRepository interface {
	Create(ctx context.Context, item *entity.ExpenseItem) error
	GetByID(ctx context.Context, id string) (*entity.ExpenseItem, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.ExpenseItem, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// ClaimRepository defines persistence operations for submitted claims and
// their item snapshots.
type ClaimRepository interface {
	Create(ctx context.Context, claim *entity.Claim) error
	GetByID(ctx context.Context, id string) (*entity.Claim, error)
	List(ctx context.Context) ([]*entity.Claim, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*entity.Claim, error)
	UpdateStatus(ctx context.Context, id, status, comment string) error
}

// SequenceRepository hands out durable monotonic claim numbers per year.
type SequenceRepository interface {
	Next(ctx context.Context, year int) (int64, error)
}

// UserRepository defines read operations over the user directory.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

// TransactionManager handles database transactions.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
