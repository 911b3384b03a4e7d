package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

func listingQuery() model.Query {
	return model.Query{
		FirstName:  "john",
		MiddleName: "adam",
		LastName:   "smith",
		Mailing:    model.PostalAddress{Address: "123 Main St", City: "Springfield", State: "IL"},
	}
}

func TestScoreListing_RuleTable(t *testing.T) {
	q := listingQuery()
	tests := []struct {
		name    string
		listing model.Listing
		want    int
	}{
		{"full name, city, middle", model.Listing{Name: "John Adam Smith", Cities: []string{"Springfield, IL"}}, 85},
		{"full name, city", model.Listing{Name: "John B Smith", Cities: []string{"Springfield, IL"}}, 80},
		{"full name only", model.Listing{Name: "John Adam Smith", Cities: []string{"Chicago, IL"}}, 75},
		{"full name no hints", model.Listing{Name: "John Smith"}, 75},
		{"last, city, middle", model.Listing{Name: "Jack Adam Smith", Cities: []string{"Springfield, IL"}}, 70},
		{"last, city", model.Listing{Name: "Jack Smith", Cities: []string{"West Springfield, MA"}}, 65},
		{"last only", model.Listing{Name: "Jack Smith", Cities: []string{"Chicago, IL"}}, 0},
		{"no name match", model.Listing{Name: "Jane Doe", Cities: []string{"Springfield, IL"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreListing(tt.listing, q))
		})
	}
}

func TestCityCheck(t *testing.T) {
	assert.True(t, CityCheck([]string{"Springfield, IL"}, "springfield"))
	assert.True(t, CityCheck([]string{"SPRINGFIELD"}, "Springfield"))
	assert.True(t, CityCheck([]string{"West Springfield, MA"}, "Springfield"))
	assert.True(t, CityCheck([]string{"Field"}, "Springfield"))
	assert.False(t, CityCheck([]string{"Chicago, IL"}, "Springfield"))
	assert.False(t, CityCheck([]string{"Springfield, IL"}, ""))
	assert.False(t, CityCheck([]string{"", ", IL"}, "Springfield"))
	assert.False(t, CityCheck(nil, "Springfield"))
}

func TestShortlist_TopOnly(t *testing.T) {
	q := listingQuery()
	listings := []model.Listing{
		{Name: "Jack Smith", Cities: []string{"Springfield, IL"}, DetailLink: "/find/person/a"},
		{Name: "John Adam Smith", Cities: []string{"Springfield, IL"}, DetailLink: "/find/person/b"},
		{Name: "John Smith", DetailLink: "/find/person/c"},
	}
	got := Shortlist(listings, q, 1)
	assert.Equal(t, []model.CandidateListing{{Score: 85, DetailLink: "/find/person/b"}}, got)
}

func TestShortlist_TiesKeepPageOrder(t *testing.T) {
	q := listingQuery()
	listings := []model.Listing{
		{Name: "John Smith", DetailLink: "/find/person/first"},
		{Name: "John Smith", DetailLink: "/find/person/second"},
	}
	got := Shortlist(listings, q, 3)
	assert.Len(t, got, 2)
	assert.Equal(t, "/find/person/first", got[0].DetailLink)
}

func TestShortlist_NothingClears(t *testing.T) {
	q := listingQuery()
	listings := []model.Listing{
		{Name: "Jane Doe", Cities: []string{"Springfield, IL"}, DetailLink: "/find/person/x"},
		{Name: "Jack Smith", Cities: []string{"Chicago, IL"}, DetailLink: "/find/person/y"},
	}
	assert.Empty(t, Shortlist(listings, q, 1))
	assert.Empty(t, Shortlist(nil, q, 1))
}

func TestShortlist_SkipsMissingLink(t *testing.T) {
	q := listingQuery()
	got := Shortlist([]model.Listing{{Name: "John Smith"}}, q, 1)
	assert.Empty(t, got)
}
