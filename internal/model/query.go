package model

import "strings"

// AddressType selects which of a query's two addresses a search strategy uses.
// The empty value means the name-only strategy.
type AddressType string

const (
	AddressNone     AddressType = ""
	AddressMailing  AddressType = "mailing_address"
	AddressProperty AddressType = "property_address"
)

// String returns a printable label; the empty type prints as "name_only".
func (a AddressType) String() string {
	if a == AddressNone {
		return "name_only"
	}
	return string(a)
}

// PostalAddress is one street/city/state/zip group of a query.
type PostalAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// IsZero reports whether the street line is empty. City/state/zip alone do
// not make an address usable for a structured search.
func (p PostalAddress) IsZero() bool {
	return strings.TrimSpace(p.Address) == ""
}

// Format renders the address as "street, city, state, zip".
func (p PostalAddress) Format() string {
	return p.Address + ", " + p.City + ", " + p.State + ", " + NormalizeZip(p.Zip)
}

// CityState renders "city, state", dropping empty parts. Returns "" when both
// are empty.
func (p PostalAddress) CityState() string {
	city := strings.TrimSpace(p.City)
	state := strings.TrimSpace(p.State)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

// Query is a single identity lookup built by the input loader. Names are
// lower-cased and trimmed. A Query is passed by value and never modified.
type Query struct {
	Row        int           `json:"row,omitempty"`
	FirstName  string        `json:"first_name"`
	MiddleName string        `json:"middle_name"`
	LastName   string        `json:"last_name"`
	Property   PostalAddress `json:"property"`
	Mailing    PostalAddress `json:"mailing"`
}

// HasMailing reports whether a mailing street line is present.
func (q Query) HasMailing() bool { return !q.Mailing.IsZero() }

// HasProperty reports whether a property street line is present.
func (q Query) HasProperty() bool { return !q.Property.IsZero() }

// Eligible reports whether the query can be resolved: first and last name
// plus at least one address.
func (q Query) Eligible() bool {
	if strings.TrimSpace(q.FirstName) == "" || strings.TrimSpace(q.LastName) == "" {
		return false
	}
	return q.HasMailing() || q.HasProperty()
}

// Address returns the address group for the given type. The name-only type
// returns the zero value.
func (q Query) Address(at AddressType) PostalAddress {
	switch at {
	case AddressMailing:
		return q.Mailing
	case AddressProperty:
		return q.Property
	}
	return PostalAddress{}
}

// PreferredAddressType is mailing when present, else property.
func (q Query) PreferredAddressType() AddressType {
	if q.HasMailing() {
		return AddressMailing
	}
	return AddressProperty
}

// City returns the mailing city, falling back to the property city.
func (q Query) City() string {
	if c := strings.TrimSpace(q.Mailing.City); c != "" {
		return c
	}
	return strings.TrimSpace(q.Property.City)
}

// NormalizeZip strips spreadsheet artifacts such as "62704.0" down to the
// part before the first dot. "nan" is treated as empty.
func NormalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if strings.EqualFold(zip, "nan") {
		return ""
	}
	if i := strings.IndexByte(zip, '.'); i >= 0 {
		zip = zip[:i]
	}
	return zip
}
