package entity

// Category is the single-letter expense category code from the paper claim form.
type Category string

const (
	CategoryPetrol        Category = "A"
	CategoryParking       Category = "B"
	CategoryTravel        Category = "C"
	CategoryVehicleRepair Category = "D"
	CategoryEntertaining  Category = "E"
	CategoryWelfare       Category = "F"
	CategorySubscriptions Category = "G"
	CategoryComputerCosts Category = "H"
	CategoryOther         Category = "I"
)

// ExpenseCategory describes one category of the claim form, including the
// ordered subcategory list shown to the user.
type ExpenseCategory struct {
	Code              Category `json:"code"`
	Name              string   `json:"name"`
	Subcategories     []string `json:"subcategories"`
	Icon              string   `json:"icon"`
	RequiresAttendees bool     `json:"requires_attendees"`
}

// expenseCategories mirrors the Berkeley form structure. Entertaining and
// Welfare require an attendee list for tax reporting.
var expenseCategories = []*ExpenseCategory{
	{Code: CategoryPetrol, Name: "Petrol Expenditure", Subcategories: []string{"Full Petrol Allowance / Fuel Card", "Business Mileage"}, Icon: "⛽"},
	{Code: CategoryParking, Name: "Parking", Subcategories: []string{"Off-Street Parking"}, Icon: "🅿️"},
	{Code: CategoryTravel, Name: "Travel Expenses", Subcategories: []string{"Public Transport", "Taxis", "Tolls", "Congestion Charging", "Subsistence"}, Icon: "🚕"},
	{Code: CategoryVehicleRepair, Name: "Vehicle Repairs", Subcategories: []string{"Repairs", "Parts"}, Icon: "🔧"},
	{Code: CategoryEntertaining, Name: "Entertaining", Subcategories: []string{"Customers (Staff & Customers)", "Employees Only"}, Icon: "🍽️", RequiresAttendees: true},
	{Code: CategoryWelfare, Name: "Welfare", Subcategories: []string{"Hotel Accommodation", "Gifts to Employees", "Corporate Gifts"}, Icon: "🏨", RequiresAttendees: true},
	{Code: CategorySubscriptions, Name: "Subscriptions", Subcategories: []string{"Professional", "Non-Professional", "Newspapers/Magazines"}, Icon: "📰"},
	{Code: CategoryComputerCosts, Name: "Computer Costs", Subcategories: []string{"All Items"}, Icon: "💻"},
	{Code: CategoryOther, Name: "WIP / Other", Subcategories: []string{"WIP", "Miscellaneous Vatable Items"}, Icon: "📦"},
}

var categoryIndex = func() map[Category]*ExpenseCategory {
	idx := make(map[Category]*ExpenseCategory, len(expenseCategories))
	for _, c := range expenseCategories {
		idx[c.Code] = c
	}
	return idx
}()

// Categories returns the full category catalog in form order.
func Categories() []*ExpenseCategory {
	return expenseCategories
}

// CategoryByCode returns the category for the given code, or nil if unknown.
func CategoryByCode(code Category) *ExpenseCategory {
	return categoryIndex[code]
}

// IsValid reports whether the code names a known category.
func (c Category) IsValid() bool {
	return categoryIndex[c] != nil
}

func (c Category) String() string {
	return string(c)
}
