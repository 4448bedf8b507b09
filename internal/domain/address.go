package domain

import "strings"

// Address is a sender or recipient block. Every field is optional for display.
type Address struct {
	Name    string `json:"name" yaml:"name"`
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Country string `json:"country" yaml:"country"`
	ZipCode string `json:"zipCode" yaml:"zipCode"`
}

// DefaultFromAddress is used until the user saves their own sender address
func DefaultFromAddress() Address {
	return Address{
		Name:    "Your Company Name",
		Street:  "123 Business Street",
		City:    "City",
		State:   "State",
		Country: "Country",
		ZipCode: "000000",
	}
}

// Lines returns the non-empty display lines of the address.
// City/state and country/zip are joined with ", " when either part is present.
func (a Address) Lines() []string {
	lines := make([]string, 0, 4)
	if s := strings.TrimSpace(a.Name); s != "" {
		lines = append(lines, s)
	}
	if s := strings.TrimSpace(a.Street); s != "" {
		lines = append(lines, s)
	}
	if s := joinPresent(a.City, a.State); s != "" {
		lines = append(lines, s)
	}
	if s := joinPresent(a.Country, a.ZipCode); s != "" {
		lines = append(lines, s)
	}
	return lines
}

// IsBlank returns true if no field has content
func (a Address) IsBlank() bool {
	return len(a.Lines()) == 0
}

func joinPresent(parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, ", ")
}
