package entity

// Role controls which workflow transitions a user may perform.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
	RoleFinance  Role = "finance"
)

// IsReviewer reports whether the role may approve or reject claims.
func (r Role) IsReviewer() bool {
	return r == RoleAdmin || r == RoleFinance
}

func (r Role) String() string {
	return string(r)
}

// User is a directory entry. ReimburseCurrency, when set, overrides the
// office currency for foreign-currency comparison.
type User struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	OfficeCode        string `json:"office"`
	Role              Role   `json:"role"`
	ReimburseCurrency string `json:"reimburse_currency,omitempty"`
}

// Office returns the user's office, or nil if the code is unknown.
func (u *User) Office() *Office {
	return OfficeByCode(u.OfficeCode)
}

// ReimbursementCurrency returns the currency the user is reimbursed in:
// the per-user override when present, otherwise the office currency.
func (u *User) ReimbursementCurrency() string {
	if u.ReimburseCurrency != "" {
		return u.ReimburseCurrency
	}
	if office := u.Office(); office != nil {
		return office.Currency
	}
	return ""
}
