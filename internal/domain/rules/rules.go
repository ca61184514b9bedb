// Package rules holds the pure validation functions that derive expense
// flags and reference codes from staging data.
package rules

import (
	"fmt"
	"time"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

// IsForeignCurrency reports whether the given currency differs from the
// user's reimbursement currency (per-user override, else office currency).
// Without an active user every currency counts as domestic.
func IsForeignCurrency(user *entity.User, currency string) bool {
	if user == nil {
		return false
	}
	return currency != user.ReimbursementCurrency()
}

// IsOlderThanTwoMonths reports whether the expense date falls before today
// minus two calendar months. The cutoff uses calendar-month subtraction, not
// a fixed day window, so month and year boundaries behave like the paper
// process expects (31 Mar minus two months is 31 Jan, not 30 Jan).
func IsOlderThanTwoMonths(date, now time.Time) bool {
	cutoff := now.AddDate(0, -2, 0)
	return date.Before(cutoff)
}

// NextReferenceCode returns the reference code for the next item of the
// given category: the category letter followed by the 1-based position
// within the current staging set. Recomputed on every call; never stored.
func NextReferenceCode(category entity.Category, staged []*entity.ExpenseItem) string {
	count := 0
	for _, item := range staged {
		if item.Category == category {
			count++
		}
	}
	return fmt.Sprintf("%s%d", category, count+1)
}

// RequiresAttendees reports whether items of this category must carry an
// attendee list and guest count.
func RequiresAttendees(category entity.Category) bool {
	c := entity.CategoryByCode(category)
	return c != nil && c.RequiresAttendees
}
