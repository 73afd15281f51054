// Package domain contains the core types for the B2B linesheet portal:
// buyer identity, company, catalogs, and the generation request/outcome
// shapes exchanged with the linesheet generation service.
package domain

// Identity is the externally supplied session data identifying the current
// B2B buyer. It is injected by the storefront bootstrap; only LocationID is
// required. The remaining fields serve as merge fallbacks when the B2B data
// endpoint omits company details.
type Identity struct {
	LocationID  string `json:"locationId"`
	CompanyID   string `json:"companyId,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Address is a company mailing address. Absent fields are empty strings,
// never omitted, so the generation service always receives a full shape.
type Address struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// Company is the merged buyer company record sent with every generation
// request. It is built once per load by merging the remote company record
// with identity fallbacks and is never mutated afterwards.
type Company struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ExternalID string  `json:"externalId,omitempty"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Address    Address `json:"address"`
}
