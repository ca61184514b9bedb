package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
	"github.com/leggyong/berkeley-expense2/internal/infrastructure/persistence/sqlite"
)

// executor covers both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ExpenseRepository implements port.ExpenseRepository over the
// staged_expenses table.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) port.ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

const expenseColumns = `
	id, user_id, ref, merchant, amount, currency, expense_date, category,
	subcategory, description, attendees, guest_count, receipt_ref,
	is_foreign_currency, is_old, status, created_at`

// Create stages a new expense item.
func (r *ExpenseRepository) Create(ctx context.Context, item *entity.ExpenseItem) error {
	query := `
		INSERT INTO staged_expenses (` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.Ref,
		item.Merchant,
		item.Amount.String(),
		item.Currency,
		item.Date,
		item.Category.String(),
		item.Subcategory,
		item.Description,
		item.Attendees,
		item.GuestCount,
		item.ReceiptRef,
		item.ForeignCurrency,
		item.OlderThanTwoMonths,
		item.Status,
		item.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to stage expense", zap.String("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to stage expense: %w", err)
	}
	return nil
}

// GetByID retrieves a staged expense by id, nil when absent.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*entity.ExpenseItem, error) {
	query := `SELECT ` + expenseColumns + ` FROM staged_expenses WHERE id = ?`

	item, err := scanExpense(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get staged expense", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get staged expense: %w", err)
	}
	return item, nil
}

// ListByUser returns the user's staging set in insertion order.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.ExpenseItem, error) {
	query := `SELECT ` + expenseColumns + ` FROM staged_expenses WHERE user_id = ? ORDER BY created_at, rowid`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list staged expenses", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list staged expenses: %w", err)
	}
	defer rows.Close()

	var items []*entity.ExpenseItem
	for rows.Next() {
		item, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staged expense: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes one staged item.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM staged_expenses WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete staged expense", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete staged expense: %w", err)
	}
	return nil
}

// DeleteByUser wipes the user's entire staging set.
func (r *ExpenseRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM staged_expenses WHERE user_id = ?`, userID)
	if err != nil {
		r.logger.Error("Failed to clear staging", zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to clear staging: %w", err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*entity.ExpenseItem, error) {
	var item entity.ExpenseItem
	var amount, category string

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Ref,
		&item.Merchant,
		&amount,
		&item.Currency,
		&item.Date,
		&category,
		&item.Subcategory,
		&item.Description,
		&item.Attendees,
		&item.GuestCount,
		&item.ReceiptRef,
		&item.ForeignCurrency,
		&item.OlderThanTwoMonths,
		&item.Status,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Category = entity.Category(category)
	item.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	return &item, nil
}

// getExecutor returns the in-flight transaction when one is on the context.
func (r *ExpenseRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
