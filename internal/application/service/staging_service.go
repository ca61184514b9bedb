package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
	"github.com/leggyong/berkeley-expense2/internal/domain/rules"
)

// Logger interface for minimal logging dependency.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// AddExpenseInput carries the expense entry form fields.
type AddExpenseInput struct {
	Merchant    string          `json:"merchant"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"date"`
	Category    entity.Category `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
	Attendees   string          `json:"attendees"`
	GuestCount  int             `json:"guest_count"`
	ReceiptRef  string          `json:"receipt_ref"`
}

// CategoryGroup is one category's staged items, for display.
type CategoryGroup struct {
	Category *entity.ExpenseCategory `json:"category"`
	Items    []*entity.ExpenseItem   `json:"items"`
}

// StagingService manages the not-yet-submitted working set of expense items
// for one employee.
type StagingService interface {
	Add(ctx context.Context, user *entity.User, input AddExpenseInput) (*entity.ExpenseItem, error)
	Remove(ctx context.Context, user *entity.User, id string) error
	List(ctx context.Context, user *entity.User) ([]*entity.ExpenseItem, error)
	ListGrouped(ctx context.Context, user *entity.User) ([]*CategoryGroup, error)
	Clear(ctx context.Context, user *entity.User) error
}

type stagingServiceImpl struct {
	expenseRepo port.ExpenseRepository
	logger      Logger
	now         func() time.Time
}

// NewStagingService creates a new StagingService.
func NewStagingService(expenseRepo port.ExpenseRepository, logger Logger) StagingService {
	return &stagingServiceImpl{
		expenseRepo: expenseRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Add validates the form input, assigns the next reference code for the
// category, stamps the derived flags and appends the item to the user's
// staging set with status draft.
func (s *stagingServiceImpl) Add(ctx context.Context, user *entity.User, input AddExpenseInput) (*entity.ExpenseItem, error) {
	if user == nil {
		return nil, permissionErr("no active user")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	staged, err := s.expenseRepo.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to list staged expenses", "error", err, "user_id", user.ID)
		return nil, err
	}

	now := s.now()
	item := &entity.ExpenseItem{
		ID:                 uuid.NewString(),
		UserID:             user.ID,
		Ref:                rules.NextReferenceCode(input.Category, staged),
		Merchant:           strings.TrimSpace(input.Merchant),
		Amount:             input.Amount,
		Currency:           input.Currency,
		Date:               input.Date,
		Category:           input.Category,
		Subcategory:        input.Subcategory,
		Description:        strings.TrimSpace(input.Description),
		Attendees:          strings.TrimSpace(input.Attendees),
		GuestCount:         input.GuestCount,
		ReceiptRef:         input.ReceiptRef,
		ForeignCurrency:    rules.IsForeignCurrency(user, input.Currency),
		OlderThanTwoMonths: rules.IsOlderThanTwoMonths(input.Date, now),
		Status:             entity.StatusDraft,
		CreatedAt:          now,
	}

	if err := s.expenseRepo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to stage expense", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("Expense staged", "id", item.ID, "ref", item.Ref, "user_id", user.ID)
	return item, nil
}

// Remove deletes a staged item by id. Only the owner may remove it;
// submitted claims are unaffected.
func (s *stagingServiceImpl) Remove(ctx context.Context, user *entity.User, id string) error {
	if user == nil {
		return permissionErr("no active user")
	}

	item, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return notFoundErr("staged expense %s", id)
	}
	if item.UserID != user.ID {
		return permissionErr("expense %s belongs to another user", id)
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to remove staged expense", "error", err, "id", id)
		return err
	}

	s.logger.Info("Expense removed from staging", "id", id, "user_id", user.ID)
	return nil
}

// List returns the user's staged items in insertion order.
func (s *stagingServiceImpl) List(ctx context.Context, user *entity.User) ([]*entity.ExpenseItem, error) {
	if user == nil {
		return nil, permissionErr("no active user")
	}
	return s.expenseRepo.ListByUser(ctx, user.ID)
}

// ListGrouped returns the staged set grouped by category in form order,
// items in insertion order within each group.
func (s *stagingServiceImpl) ListGrouped(ctx context.Context, user *entity.User) ([]*CategoryGroup, error) {
	staged, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[entity.Category][]*entity.ExpenseItem)
	for _, item := range staged {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var groups []*CategoryGroup
	for _, cat := range entity.Categories() {
		if items := byCategory[cat.Code]; len(items) > 0 {
			groups = append(groups, &CategoryGroup{Category: cat, Items: items})
		}
	}
	return groups, nil
}

// Clear drops the user's entire staging set. Called on logout; submission
// clears staging itself inside the submit transaction.
func (s *stagingServiceImpl) Clear(ctx context.Context, user *entity.User) error {
	if user == nil {
		return permissionErr("no active user")
	}
	if err := s.expenseRepo.DeleteByUser(ctx, user.ID); err != nil {
		s.logger.Error("Failed to clear staging", "error", err, "user_id", user.ID)
		return err
	}
	s.logger.Info("Staging cleared", "user_id", user.ID)
	return nil
}

func validateInput(input AddExpenseInput) error {
	if strings.TrimSpace(input.Merchant) == "" {
		return validationErr("merchant is required")
	}
	if !input.Amount.IsPositive() {
		return validationErr("amount must be positive")
	}
	if !entity.IsSupportedCurrency(input.Currency) {
		return validationErr("unsupported currency %q", input.Currency)
	}
	if input.Date.IsZero() {
		return validationErr("date is required")
	}
	if !input.Category.IsValid() {
		return validationErr("unknown category %q", input.Category)
	}
	if input.Subcategory == "" {
		return validationErr("subcategory is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return validationErr("description is required")
	}
	if rules.RequiresAttendees(input.Category) {
		if strings.TrimSpace(input.Attendees) == "" {
			return validationErr("category %s requires an attendees list", input.Category)
		}
		if input.GuestCount <= 0 {
			return validationErr("category %s requires a guest count", input.Category)
		}
	}
	return nil
}
