//go:build libpostal

package address

import (
	"strings"

	postal "github.com/openvenues/gopostal/parser"
)

// LibpostalParser tags addresses with libpostal's CRF model. Multi-word
// components are split into one token per word so positional comparison
// lines up with RuleParser output.
type LibpostalParser struct{}

// DefaultParser returns the libpostal-backed parser.
func DefaultParser() Parser { return LibpostalParser{} }

var libpostalLabels = map[string]Label{
	"house_number":  AddressNumber,
	"road":          StreetName,
	"city":          PlaceName,
	"suburb":        PlaceName,
	"city_district": PlaceName,
	"state":         StateName,
	"postcode":      ZipCode,
}

// Parse implements Parser.
func (LibpostalParser) Parse(addr string) []Token {
	var tokens []Token
	for _, c := range postal.ParseAddress(addr) {
		label, ok := libpostalLabels[c.Label]
		if !ok {
			label = Other
		}
		words := strings.Fields(c.Value)
		if label == StreetName && len(words) > 1 && suffixes[strings.ToLower(words[len(words)-1])] {
			for _, w := range words[:len(words)-1] {
				tokens = append(tokens, Token{Value: w, Label: StreetName})
			}
			tokens = append(tokens, Token{Value: words[len(words)-1], Label: Other})
			continue
		}
		for _, w := range words {
			tokens = append(tokens, Token{Value: w, Label: label})
		}
	}
	return tokens
}
