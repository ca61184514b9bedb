package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseItemStatus is the lifecycle status of a single expense item.
// Items only ever hold StatusDraft while staged; once embedded in a
// submitted claim they are never mutated again.
const StatusDraft = "draft"

// ExpenseItem is one expense line, staged against a receipt before being
// bundled into a claim.
type ExpenseItem struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"user_id"`
	Ref         string          `json:"ref"`
	Merchant    string          `json:"merchant"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"date"`
	Category    Category        `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
	Attendees   string          `json:"attendees,omitempty"`
	GuestCount  int             `json:"guest_count,omitempty"`
	ReceiptRef  string          `json:"receipt_ref,omitempty"`

	// Derived at staging time.
	ForeignCurrency bool `json:"is_foreign_currency"`
	OlderThanTwoMonths bool `json:"is_old"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
