package agency

import (
	"strings"
	"unicode/utf8"

	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/domain/shared/valueobject"
)

// Profile holds the business details shared by agencies and sub-accounts.
// Every field is required when the profile is submitted through a form.
type Profile struct {
	Name         string
	Logo         string
	CompanyEmail string
	CompanyPhone string
	Address      valueobject.Address
}

// ProfileInput is the unvalidated form payload for a Profile
type ProfileInput struct {
	Name         string
	Logo         string
	CompanyEmail string
	CompanyPhone string
	Address      string
	City         string
	ZipCode      string
	State        string
	Country      string
}

// NameMinLength is the shortest accepted business name
const NameMinLength = 2

// Build validates the input and returns a Profile.
// kind is "Agency" or "Sub account" and prefixes the name rule message.
func (in ProfileInput) Build(kind string) (Profile, error) {
	var problems []string
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < NameMinLength {
		problems = append(problems, kind+" name must be atleast 2 chars.")
	}
	if strings.TrimSpace(in.CompanyEmail) == "" {
		problems = append(problems, "companyEmail is required")
	}
	if strings.TrimSpace(in.CompanyPhone) == "" {
		problems = append(problems, "companyPhone is required")
	}
	if strings.TrimSpace(in.Logo) == "" {
		problems = append(problems, "logo is required")
	}
	addr := valueobject.UnvalidatedAddress(
		strings.TrimSpace(in.Address),
		strings.TrimSpace(in.City),
		strings.TrimSpace(in.State),
		strings.TrimSpace(in.ZipCode),
		strings.TrimSpace(in.Country),
	)
	for _, f := range addr.MissingFields() {
		problems = append(problems, f+" is required")
	}
	if len(problems) > 0 {
		return Profile{}, shared.NewDomainError("VALIDATION_FAILED", strings.Join(problems, "; "))
	}

	return Profile{
		Name:         strings.TrimSpace(in.Name),
		Logo:         strings.TrimSpace(in.Logo),
		CompanyEmail: strings.TrimSpace(in.CompanyEmail),
		CompanyPhone: strings.TrimSpace(in.CompanyPhone),
		Address:      addr,
	}, nil
}

// Complete reports whether every launchpad-relevant detail is present
func (p Profile) Complete() bool {
	return p.Name != "" &&
		p.Logo != "" &&
		p.CompanyEmail != "" &&
		p.CompanyPhone != "" &&
		p.Address.IsComplete()
}
