package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is an immutable postal address shared by agencies, sub-accounts and
// billing customers. Field names follow the payment provider's address shape.
type Address struct {
	line1      string
	city       string
	state      string
	postalCode string
	country    string
}

// NewAddress creates an Address. Every field is required.
func NewAddress(line1, city, state, postalCode, country string) (Address, error) {
	addr := Address{
		line1:      strings.TrimSpace(line1),
		city:       strings.TrimSpace(city),
		state:      strings.TrimSpace(state),
		postalCode: strings.TrimSpace(postalCode),
		country:    strings.TrimSpace(country),
	}
	if err := addr.validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// UnvalidatedAddress builds an Address from stored values without checking
// required fields. Persisted rows may predate a complete profile.
func UnvalidatedAddress(line1, city, state, postalCode, country string) Address {
	return Address{
		line1:      line1,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    country,
	}
}

func (a Address) validate() error {
	missing := a.MissingFields()
	if len(missing) > 0 {
		return fmt.Errorf("address is missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(a.country) > 100 {
		return fmt.Errorf("country cannot exceed 100 characters")
	}
	if len(a.postalCode) > 20 {
		return fmt.Errorf("postal code cannot exceed 20 characters")
	}
	return nil
}

// MissingFields lists the names of blank fields in form order
func (a Address) MissingFields() []string {
	var missing []string
	if a.line1 == "" {
		missing = append(missing, "address")
	}
	if a.city == "" {
		missing = append(missing, "city")
	}
	if a.postalCode == "" {
		missing = append(missing, "zipCode")
	}
	if a.state == "" {
		missing = append(missing, "state")
	}
	if a.country == "" {
		missing = append(missing, "country")
	}
	return missing
}

// Line1 returns the street line
func (a Address) Line1() string { return a.line1 }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state or region
func (a Address) State() string { return a.state }

// PostalCode returns the zip/postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsComplete reports whether every field is filled in
func (a Address) IsComplete() bool {
	return len(a.MissingFields()) == 0
}

// IsEmpty reports whether every field is blank
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.city == "" && a.state == "" && a.postalCode == "" && a.country == ""
}

// String formats the address on one line
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.line1, a.city, strings.TrimSpace(a.state + " " + a.postalCode), a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:      a.line1,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler. An all-blank object decodes to
// the empty address; anything else must be complete.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == (addressJSON{}) {
		*a = Address{}
		return nil
	}
	addr, err := NewAddress(v.Line1, v.City, v.State, v.PostalCode, v.Country)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
