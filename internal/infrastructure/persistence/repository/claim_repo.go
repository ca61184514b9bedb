package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
	"github.com/leggyong/berkeley-expense2/internal/infrastructure/persistence/sqlite"
)

// ClaimRepository implements port.ClaimRepository over the claims and
// claim_items tables. Items are a snapshot written once at submission.
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *sql.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{db: db, logger: logger}
}

const claimColumns = `
	id, display_id, employee_id, employee_name, office, currency, total,
	item_count, status, submitted_at, flags, review_comment, created_at, updated_at`

// Create persists the claim row and its item snapshot. Callers run this
// inside the submit transaction so the snapshot and the staging wipe are
// atomic.
func (r *ClaimRepository) Create(ctx context.Context, claim *entity.Claim) error {
	flags, err := json.Marshal(claim.Flags)
	if err != nil {
		return fmt.Errorf("failed to encode flags: %w", err)
	}

	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := r.getExecutor(ctx)
	_, err = exec.ExecContext(ctx, query,
		claim.ID,
		claim.DisplayID,
		claim.EmployeeID,
		claim.EmployeeName,
		claim.Office,
		claim.Currency,
		claim.Total.String(),
		claim.ItemCount,
		claim.Status,
		claim.SubmittedAt,
		string(flags),
		claim.ReviewComment,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create claim", zap.String("id", claim.ID), zap.Error(err))
		return fmt.Errorf("failed to create claim: %w", err)
	}

	itemQuery := `
		INSERT INTO claim_items (claim_id, ` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range claim.Items {
		_, err := exec.ExecContext(ctx, itemQuery,
			claim.ID,
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
			r.logger.Error("Failed to snapshot claim item",
				zap.String("claim_id", claim.ID),
				zap.String("item_id", item.ID),
				zap.Error(err))
			return fmt.Errorf("failed to snapshot claim item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a claim with its item snapshot, nil when absent.
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = ?`

	claim, err := scanClaim(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get claim", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	itemQuery := `SELECT ` + expenseColumns + ` FROM claim_items WHERE claim_id = ? ORDER BY created_at, rowid`
	rows, err := r.getExecutor(ctx).QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load claim items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim item: %w", err)
		}
		claim.Items = append(claim.Items, item)
	}
	return claim, rows.Err()
}

// List returns all claims, newest submission first, without item snapshots.
func (r *ClaimRepository) List(ctx context.Context) ([]*entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY submitted_at DESC, rowid DESC`
	return r.queryClaims(ctx, query)
}

// ListByEmployee returns one employee's claims, newest first.
func (r *ClaimRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE employee_id = ? ORDER BY submitted_at DESC, rowid DESC`
	return r.queryClaims(ctx, query, employeeID)
}

// UpdateStatus records the outcome of an approve/reject transition.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id, status, comment string) error {
	query := `UPDATE claims SET status = ?, review_comment = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, status, comment, id)
	if err != nil {
		r.logger.Error("Failed to update claim status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update claim status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("claim %s not found", id)
	}
	return nil
}

func (r *ClaimRepository) queryClaims(ctx context.Context, query string, args ...interface{}) ([]*entity.Claim, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list claims", zap.Error(err))
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*entity.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

func scanClaim(row rowScanner) (*entity.Claim, error) {
	var claim entity.Claim
	var total, flags string

	err := row.Scan(
		&claim.ID,
		&claim.DisplayID,
		&claim.EmployeeID,
		&claim.EmployeeName,
		&claim.Office,
		&claim.Currency,
		&total,
		&claim.ItemCount,
		&claim.Status,
		&claim.SubmittedAt,
		&flags,
		&claim.ReviewComment,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	claim.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total %q: %w", total, err)
	}
	if err := json.Unmarshal([]byte(flags), &claim.Flags); err != nil {
		return nil, fmt.Errorf("invalid stored flags %q: %w", flags, err)
	}
	return &claim, nil
}

// getExecutor returns the in-flight transaction when one is on the context.
func (r *ClaimRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.ClaimRepository = (*ClaimRepository)(nil)
