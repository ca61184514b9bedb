package rules

import (
	"testing"
	"time"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

func TestIsForeignCurrency(t *testing.T) {
	dubai := &entity.User{ID: 1, OfficeCode: "DXB", Role: entity.RoleEmployee}
	override := &entity.User{ID: 4, OfficeCode: "DXB", Role: entity.RoleEmployee, ReimburseCurrency: "GBP"}

	tests := []struct {
		name     string
		user     *entity.User
		currency string
		expected bool
	}{
		{"office currency is domestic", dubai, "AED", false},
		{"other currency is foreign", dubai, "GBP", true},
		{"override currency is domestic", override, "GBP", false},
		{"office currency foreign under override", override, "AED", true},
		{"nil user", nil, "GBP", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsForeignCurrency(tt.user, tt.currency); got != tt.expected {
				t.Errorf("IsForeignCurrency(%v, %q) = %v, want %v", tt.user, tt.currency, got, tt.expected)
			}
		})
	}
}

func TestIsOlderThanTwoMonths(t *testing.T) {
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"today", now, false},
		{"one month ago", now.AddDate(0, -1, 0), false},
		{"exactly at the cutoff", time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC), false},
		{"just before the cutoff", time.Date(2026, time.January, 31, 11, 59, 59, 0, time.UTC), true},
		{"three months ago", now.AddDate(0, -3, 0), true},
		{"previous year", time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOlderThanTwoMonths(tt.date, now); got != tt.expected {
				t.Errorf("IsOlderThanTwoMonths(%v, %v) = %v, want %v", tt.date, now, got, tt.expected)
			}
		})
	}
}

func TestIsOlderThanTwoMonths_YearBoundary(t *testing.T) {
	// Two months before mid-January lands in the previous year.
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	if IsOlderThanTwoMonths(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), now) {
		t.Error("December of the previous year should still be within two months")
	}
	if !IsOlderThanTwoMonths(time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC), now) {
		t.Error("October of the previous year should be older than two months")
	}
}

func TestNextReferenceCode(t *testing.T) {
	staged := []*entity.ExpenseItem{
		{Category: entity.CategoryTravel},
		{Category: entity.CategoryTravel},
		{Category: entity.CategoryParking},
	}

	tests := []struct {
		category entity.Category
		expected string
	}{
		{entity.CategoryTravel, "C3"},
		{entity.CategoryParking, "B2"},
		{entity.CategoryEntertaining, "E1"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := NextReferenceCode(tt.category, staged); got != tt.expected {
				t.Errorf("NextReferenceCode(%v) = %v, want %v", tt.category, got, tt.expected)
			}
		})
	}
}

func TestNextReferenceCode_EmptyStaging(t *testing.T) {
	if got := NextReferenceCode(entity.CategoryTravel, nil); got != "C1" {
		t.Errorf("NextReferenceCode() = %v, want C1", got)
	}
}

func TestRequiresAttendees(t *testing.T) {
	tests := []struct {
		category entity.Category
		expected bool
	}{
		{entity.CategoryEntertaining, true},
		{entity.CategoryWelfare, true},
		{entity.CategoryTravel, false},
		{entity.CategoryOther, false},
		{entity.Category("Z"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := RequiresAttendees(tt.category); got != tt.expected {
				t.Errorf("RequiresAttendees(%v) = %v, want %v", tt.category, got, tt.expected)
			}
		})
	}
}
