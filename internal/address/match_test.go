package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// fixedParser returns canned tokens per input string.
type fixedParser map[string][]Token

func (f fixedParser) Parse(addr string) []Token { return f[addr] }

func springfieldQuery() model.Query {
	return model.Query{
		FirstName: "john",
		LastName:  "smith",
		Mailing: model.PostalAddress{
			Address: "123 Main St",
			City:    "Springfield",
			State:   "IL",
			Zip:     "62704",
		},
	}
}

func TestAccept_ExactGate(t *testing.T) {
	for score := -10; score <= 100; score++ {
		got := Accept(score)
		switch score {
		case 45, 50:
			assert.Equal(t, score, got)
		default:
			assert.Equal(t, 0, got, "score %d must be rejected", score)
		}
	}
}

func TestMatch_CurrentAddressAllFields(t *testing.T) {
	m := NewMatcher(nil)
	p := &model.PersonProfile{Addresses: []string{"123 main st, springfield, il, 62704"}}

	ms := m.Match(springfieldQuery(), model.AddressMailing, p)
	assert.Equal(t, 50, ms.Score)
	assert.Equal(t, 50, ms.Best)
	assert.Equal(t, 0, ms.BestIndex)
	assert.Equal(t, []int{50}, ms.PerAddress)
}

func TestMatch_HistoricalAddressDiscounted(t *testing.T) {
	m := NewMatcher(nil)
	p := &model.PersonProfile{Addresses: []string{
		"77 Other Rd, Chicago, IL, 60601",
		"123 main st, springfield, il, 62704",
	}}

	ms := m.Match(springfieldQuery(), model.AddressMailing, p)
	assert.Equal(t, 45, ms.Score)
	assert.Equal(t, 1, ms.BestIndex)
	assert.Equal(t, 45, ms.PerAddress[1])
}

func TestMatch_PartialRejected(t *testing.T) {
	m := NewMatcher(nil)
	p := &model.PersonProfile{Addresses: []string{"123 main st, peoria, il, 61602"}}

	ms := m.Match(springfieldQuery(), model.AddressMailing, p)
	assert.Equal(t, 30, ms.Best)
	assert.Equal(t, 0, ms.Score)
}

func TestMatch_SixtyRejected(t *testing.T) {
	// Two AddressNumber agreements plus the other four labels add up to 60,
	// which is outside the acceptance set.
	q := springfieldQuery()
	queryAddr := QueryAddress(q, model.AddressMailing)
	profileAddr := "123 1/2 main st, springfield, il, 62704"
	tokens := []Token{
		{"123", AddressNumber}, {"1/2", AddressNumber}, {"main", StreetName},
		{"springfield", PlaceName}, {"il", StateName}, {"62704", ZipCode},
	}
	m := NewMatcher(fixedParser{queryAddr: tokens, profileAddr: tokens})

	ms := m.Match(q, model.AddressMailing, &model.PersonProfile{Addresses: []string{profileAddr}})
	assert.Equal(t, 60, ms.Best)
	assert.Equal(t, 0, ms.Score)
}

func TestCompare_StreetAndPlaceCountOnce(t *testing.T) {
	a := []Token{
		{"4500", AddressNumber}, {"martin", StreetName}, {"luther", StreetName}, {"king", StreetName},
		{"san", PlaceName}, {"antonio", PlaceName}, {"tx", StateName}, {"78220", ZipCode},
	}
	assert.Equal(t, 50, Compare(a, a))
}

func TestCompare_LabelMismatchIgnored(t *testing.T) {
	a := []Token{{"123", AddressNumber}, {"main", StreetName}}
	b := []Token{{"123", ZipCode}, {"MAIN ", StreetName}}
	assert.Equal(t, 10, Compare(a, b))
}

func TestCompare_OtherNeverScores(t *testing.T) {
	a := []Token{{"st", Other}, {"apt", Other}}
	assert.Equal(t, 0, Compare(a, a))
}

func TestCompare_UnevenLengths(t *testing.T) {
	a := []Token{{"123", AddressNumber}}
	b := []Token{{"123", AddressNumber}, {"main", StreetName}}
	assert.Equal(t, 10, Compare(a, b))
	assert.Equal(t, 0, Compare(nil, b))
}

func TestMatch_NoAddresses(t *testing.T) {
	m := NewMatcher(nil)
	ms := m.Match(springfieldQuery(), model.AddressMailing, &model.PersonProfile{})
	assert.Equal(t, 0, ms.Score)
	assert.Equal(t, -1, ms.BestIndex)
	assert.Nil(t, ms.PerAddress)

	ms = m.Match(springfieldQuery(), model.AddressMailing, nil)
	assert.Equal(t, 0, ms.Score)
}

func TestMatch_ScoreAlwaysInGateSet(t *testing.T) {
	m := NewMatcher(nil)
	q := springfieldQuery()
	profiles := [][]string{
		{"123 main st, springfield, il, 62704"},
		{"1 x, y, z, 0"},
		{"", "garbage"},
		{"123 main st, springfield, il, 62704", "123 main st, springfield, il, 62704"},
		{"9 main st, springfield, il, 62704"},
		{"123 main ave, springfield, il, 62704", "123 main st, springfield, mo, 62704"},
	}
	for _, addrs := range profiles {
		ms := m.Match(q, model.AddressMailing, &model.PersonProfile{Addresses: addrs})
		assert.Contains(t, []int{0, 45, 50}, ms.Score, addrs)
	}
}

func TestQueryAddress_NameOnlyPrefersMailing(t *testing.T) {
	q := springfieldQuery()
	q.Property = model.PostalAddress{Address: "9 Oak Ave", City: "Peoria", State: "IL", Zip: "61602.0"}

	assert.Equal(t, "123 Main St, Springfield, IL, 62704", QueryAddress(q, model.AddressNone))
	assert.Equal(t, "9 Oak Ave, Peoria, IL, 61602", QueryAddress(q, model.AddressProperty))

	q.Mailing = model.PostalAddress{}
	assert.Equal(t, "9 Oak Ave, Peoria, IL, 61602", QueryAddress(q, model.AddressNone))
}

func TestSplit(t *testing.T) {
	pa := Split(RuleParser{}, "4500 Martin Luther King Blvd, San Antonio, TX, 78220")
	require.NotEmpty(t, pa.Address)
	assert.Equal(t, "4500 Martin Luther King Blvd", pa.Address)
	assert.Equal(t, "San Antonio", pa.City)
	assert.Equal(t, "TX", pa.State)
	assert.Equal(t, "78220", pa.Zip)
}
