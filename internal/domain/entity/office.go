package entity

// Office is a company office. Its currency is the default reimbursement
// currency for employees based there.
type Office struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
}

var offices = []*Office{
	{Code: "SHA", Name: "Shanghai", Currency: "CNY", Country: "China"},
	{Code: "BEJ", Name: "Beijing", Currency: "CNY", Country: "China"},
	{Code: "CHE", Name: "Chengdu", Currency: "CNY", Country: "China"},
	{Code: "SHE", Name: "Shenzhen", Currency: "CNY", Country: "China"},
	{Code: "HKG", Name: "Hong Kong", Currency: "HKD", Country: "Hong Kong"},
	{Code: "SIN", Name: "Singapore", Currency: "SGD", Country: "Singapore"},
	{Code: "BKK", Name: "Bangkok", Currency: "THB", Country: "Thailand"},
	{Code: "DXB", Name: "Dubai", Currency: "AED", Country: "UAE"},
}

var officeIndex = func() map[string]*Office {
	idx := make(map[string]*Office, len(offices))
	for _, o := range offices {
		idx[o.Code] = o
	}
	return idx
}()

// supportedCurrencies are the currencies an expense may be recorded in.
var supportedCurrencies = []string{"SGD", "HKD", "CNY", "THB", "AED", "GBP", "USD", "EUR", "MYR", "JPY"}

// Offices returns the office catalog.
func Offices() []*Office {
	return offices
}

// OfficeByCode returns the office for the given 3-letter code, or nil.
func OfficeByCode(code string) *Office {
	return officeIndex[code]
}

// Currencies returns the supported currency codes.
func Currencies() []string {
	return supportedCurrencies
}

// IsSupportedCurrency reports whether the code is in the supported list.
func IsSupportedCurrency(code string) bool {
	for _, c := range supportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
