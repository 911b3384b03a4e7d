package address

import (
	"strings"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

const (
	// FieldPoints is awarded per agreeing labeled component.
	FieldPoints = 10
	// RecencyDiscount is subtracted from every profile address after the first.
	RecencyDiscount = 5
)

// acceptanceGate is the exact set of best scores that count as a match.
// 50 is all five components on the current address; 45 is the same on a
// historical one. Anything else, higher scores included, is rejected.
var acceptanceGate = map[int]bool{45: true, 50: true}

// Accept applies the acceptance gate: score if it is exactly 45 or 50,
// otherwise 0.
func Accept(score int) int {
	if acceptanceGate[score] {
		return score
	}
	return 0
}

// MatchScore is the outcome of comparing a query address with a profile.
type MatchScore struct {
	// Score is the gated result: 0, 45 or 50.
	Score int
	// Best is the highest per-address score before gating.
	Best int
	// BestIndex is the profile address that produced Best, or -1.
	BestIndex int
	// PerAddress holds the discounted score of every profile address.
	PerAddress []int
}

// Matcher scores query addresses against profile addresses.
type Matcher struct {
	parser Parser
}

// NewMatcher creates a Matcher using p; nil selects DefaultParser.
func NewMatcher(p Parser) *Matcher {
	if p == nil {
		p = DefaultParser()
	}
	return &Matcher{parser: p}
}

// Parser returns the parser the matcher tokenizes with.
func (m *Matcher) Parser() Parser { return m.parser }

// QueryAddress returns the formatted query address compared for the given
// strategy. The name-only strategy compares mailing when present, else
// property.
func QueryAddress(q model.Query, at model.AddressType) string {
	if at == model.AddressNone {
		at = q.PreferredAddressType()
	}
	return q.Address(at).Format()
}

// Match compares the query's address for strategy at with every address on
// the profile. A profile without addresses scores 0.
func (m *Matcher) Match(q model.Query, at model.AddressType, p *model.PersonProfile) MatchScore {
	ms := MatchScore{BestIndex: -1}
	if p == nil || len(p.Addresses) == 0 {
		return ms
	}

	query := m.parser.Parse(QueryAddress(q, at))
	ms.PerAddress = make([]int, len(p.Addresses))
	for i, addr := range p.Addresses {
		score := Compare(query, m.parser.Parse(addr))
		if i > 0 {
			score -= RecencyDiscount
		}
		ms.PerAddress[i] = score
		if ms.BestIndex < 0 || score > ms.Best {
			ms.Best = score
			ms.BestIndex = i
		}
	}
	ms.Score = Accept(ms.Best)
	return ms
}

// Compare walks two token sequences position by position. A pair scores
// when both carry the same matchable label and equal values (case and
// surrounding space ignored). StreetName and PlaceName score at most once.
func Compare(a, b []Token) int {
	n := min(len(a), len(b))
	score := 0
	streetMatched, placeMatched := false, false
	for i := range n {
		x, y := a[i], b[i]
		if !x.Label.Matchable() || x.Label != y.Label {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(x.Value), strings.TrimSpace(y.Value)) {
			continue
		}
		switch x.Label {
		case StreetName:
			if !streetMatched {
				score += FieldPoints
				streetMatched = true
			}
		case PlaceName:
			if !placeMatched {
				score += FieldPoints
				placeMatched = true
			}
		default:
			score += FieldPoints
		}
	}
	return score
}

// Split re-derives street, city, state and zip from a formatted address
// using the parser. Missing components come back empty.
func Split(p Parser, addr string) model.PostalAddress {
	tokens := p.Parse(addr)
	return model.PostalAddress{
		Address: Street(addr),
		City:    Component(tokens, PlaceName),
		State:   Component(tokens, StateName),
		Zip:     Component(tokens, ZipCode),
	}
}
