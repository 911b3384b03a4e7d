// Package address splits US postal addresses into labeled components and
// scores structured address agreement between a query and a person profile.
package address

import "strings"

// Label identifies what part of an address a token is.
type Label int

const (
	Other Label = iota
	AddressNumber
	StreetName
	PlaceName
	StateName
	ZipCode
)

func (l Label) String() string {
	switch l {
	case AddressNumber:
		return "AddressNumber"
	case StreetName:
		return "StreetName"
	case PlaceName:
		return "PlaceName"
	case StateName:
		return "StateName"
	case ZipCode:
		return "ZipCode"
	default:
		return "Other"
	}
}

// Matchable reports whether tokens with this label take part in scoring.
func (l Label) Matchable() bool {
	return l != Other
}

// Token is one labeled word of an address.
type Token struct {
	Value string
	Label Label
}

// Parser splits a free-text address into ordered tokens. Implementations
// must not fail: unparseable input yields a partial or empty sequence.
type Parser interface {
	Parse(address string) []Token
}

// Component returns the first contiguous run of tokens carrying label,
// joined by single spaces. Returns "" when the label is absent.
func Component(tokens []Token, label Label) string {
	var parts []string
	for _, t := range tokens {
		if t.Label == label {
			parts = append(parts, t.Value)
			continue
		}
		if len(parts) > 0 {
			break
		}
	}
	return strings.Join(parts, " ")
}

// Street returns the text before the first comma of a formatted address.
func Street(address string) string {
	if i := strings.IndexByte(address, ','); i >= 0 {
		return strings.TrimSpace(address[:i])
	}
	return strings.TrimSpace(address)
}
