package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim lifecycle statuses. A claim enters the store in StatusPendingAdmin
// and only ever moves forward; Approved and Rejected are terminal.
const (
	StatusPendingAdmin   = "pending_admin"
	StatusPendingFinance = "pending_finance"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
)

// FlagOldExpenses is attached to a claim when any constituent item is older
// than two calendar months at submission time.
const FlagOldExpenses = "Contains expenses older than 2 months - requires elevated approval"

// Claim is a submitted bundle of expense items carrying one aggregate
// status. The embedded items are a snapshot taken at submission time and
// are decoupled from the staging list.
type Claim struct {
	ID           string          `json:"id"`
	DisplayID    string          `json:"display_id"`
	EmployeeID   int64           `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Office       string          `json:"office"`
	Currency     string          `json:"currency"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"item_count"`
	Status       string          `json:"status"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	Flags        []string        `json:"flags"`
	Items        []*ExpenseItem  `json:"items,omitempty"`

	// ReviewComment is the optional comment left by the last reviewer.
	ReviewComment string `json:"review_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPending reports whether the claim is awaiting a reviewer.
func (c *Claim) IsPending() bool {
	return c.Status == StatusPendingAdmin || c.Status == StatusPendingFinance
}
