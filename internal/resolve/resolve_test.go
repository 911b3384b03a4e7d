package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/skiptrace-cli/internal/extract"
	"github.com/sells-group/skiptrace-cli/internal/model"
	"github.com/sells-group/skiptrace-cli/internal/search"
)

const base = "https://people.test"

// fakeSite serves canned listings and profiles by URL and records fetches.
type fakeSite struct {
	mu       sync.Mutex
	listings map[string][]model.Listing
	profiles map[string]*model.PersonProfile
	fail     map[string]error
	calls    []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		listings: map[string][]model.Listing{},
		profiles: map[string]*model.PersonProfile{},
		fail:     map[string]error{},
	}
}

func (s *fakeSite) Fetch(ctx context.Context, url string) (*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url)
	if err, ok := s.fail[url]; ok {
		return nil, err
	}
	_, isSearch := s.listings[url]
	_, isProfile := s.profiles[url]
	if !isSearch && !isProfile {
		return nil, errors.New("unexpected status 404")
	}
	return &model.Page{URL: url, StatusCode: 200}, nil
}

func (s *fakeSite) Listings(page *model.Page) ([]model.Listing, error) {
	return s.listings[page.URL], nil
}

func (s *fakeSite) Profile(page *model.Page) (*model.PersonProfile, error) {
	p := s.profiles[page.URL]
	if p == nil {
		return nil, extract.ErrNoProfile
	}
	return p, nil
}

func (s *fakeSite) fetched(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == url {
			return true
		}
	}
	return false
}

func (s *fakeSite) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func johnSmith() model.Query {
	return model.Query{
		Row:       2,
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

func card(link string) model.Listing {
	return model.Listing{Name: "John Smith", Cities: []string{"Springfield, IL"}, DetailLink: link}
}

func profile(link, first string, addrs ...string) *model.PersonProfile {
	return &model.PersonProfile{
		FirstName: first,
		LastName:  "smith",
		Addresses: addrs,
		Phones:    []model.Phone{{Number: "(217) 555-0100", Type: "Wireless"}},
		Emails:    []string{"john@example.com"},
		Source:    link,
	}
}

func newResolver(site *fakeSite, mode Mode) *Resolver {
	opts := DefaultOptions()
	opts.BaseURL = base
	opts.Mode = mode
	return New(site, site, opts)
}

func TestResolve_CurrentAddressAccepted(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	link := base + "/find/person/p1"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{card(link)}
	site.profiles[link] = profile(link, "john", "123 main st, springfield, il, 62704")

	res, err := newResolver(site, ModeLegacy).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 80, res.Confidence)
	assert.Equal(t, model.AddressMailing, res.Strategy)
	assert.Equal(t, link, res.Source)
	assert.Equal(t, []model.Phone{{Number: "(217) 555-0100", Type: "Wireless"}}, res.Phones)
	assert.Equal(t, []string{"john@example.com"}, res.Emails)
	assert.Equal(t, model.PostalAddress{Address: "123 main st", City: "springfield", State: "il", Zip: "62704"}, res.Mailing)
	assert.Equal(t, q.Property, res.Property)
	assert.Equal(t, 2, res.Row)
}

func TestResolve_HistoricalAddressBoundaryAccepted(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	link := base + "/find/person/p1"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{card(link)}
	site.profiles[link] = profile(link, "john",
		"77 other rd, chicago, il, 60601",
		"123 main st, springfield, il, 62704",
	)

	res, err := newResolver(site, ModeLegacy).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 75, res.Confidence)
	assert.Equal(t, "123 main st", res.Mailing.Address)
}

func TestResolve_NoShortlistPassesThrough(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{
		{Name: "Jane Doe", Cities: []string{"Springfield, IL"}, DetailLink: base + "/find/person/x"},
	}

	res, err := newResolver(site, ModeLegacy).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, model.PassThrough(q), res)
	assert.Equal(t, 1, site.callCount())
}

func TestResolve_LegacyEmitsBestBelowThreshold(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	q.Property = model.PostalAddress{Address: "9 Oak Ave", City: "Peoria", State: "IL", Zip: "61602"}
	link := base + "/find/person/p1"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{
		{Name: "Johnny Smith", Cities: []string{"Springfield, IL"}, DetailLink: link},
	}
	site.profiles[link] = profile(link, "johnny", "123 main st, springfield, il, 62704")

	res, err := newResolver(site, ModeLegacy).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 70, res.Confidence)
	assert.Equal(t, model.AddressMailing, res.Strategy)
	assert.False(t, site.fetched(search.BuildURL(base, q, model.AddressProperty)))
}

func TestResolve_LegacyZeroCompositePassesThrough(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	link := base + "/find/person/p1"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{
		{Name: "Mary Smith", Cities: []string{"Springfield, IL"}, DetailLink: link},
	}
	site.profiles[link] = &model.PersonProfile{FirstName: "mary", LastName: "jones", Source: link}

	res, err := newResolver(site, ModeLegacy).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, model.PassThrough(q), res)
	assert.Nil(t, res.Phones)
}

func TestResolve_SearchFetchFailure(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	site.fail[search.BuildURL(base, q, model.AddressMailing)] = errors.New("blocked")

	res, err := newResolver(site, ModeLegacy).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Confidence)
	assert.Equal(t, 1, site.callCount())
}

func TestResolve_ProfileFetchFailureSkipsCandidate(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	bad, good := base+"/find/person/bad", base+"/find/person/good"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{card(bad), card(good)}
	site.fail[bad] = errors.New("timeout")
	site.profiles[good] = profile(good, "john", "123 main st, springfield, il, 62704")

	opts := DefaultOptions()
	opts.BaseURL = base
	opts.MaxShortlist = 3
	res, err := New(site, site, opts).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 80, res.Confidence)
	assert.Equal(t, good, res.Source)
}

func TestResolve_AcceptStopsCandidateLoop(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	first, second := base+"/find/person/1", base+"/find/person/2"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{card(first), card(second)}
	site.profiles[first] = profile(first, "john", "123 main st, springfield, il, 62704")
	site.profiles[second] = profile(second, "john", "123 main st, springfield, il, 62704")

	opts := DefaultOptions()
	opts.BaseURL = base
	opts.MaxShortlist = 3
	opts.Mode = ModeEscalate
	res, err := New(site, site, opts).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, res.Source)
	assert.False(t, site.fetched(second))
	assert.False(t, site.fetched(search.BuildURL(base, q, model.AddressNone)))
}

func TestResolve_MaxCandidatesCap(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	var cards []model.Listing
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		link := base + "/find/person/" + id
		cards = append(cards, card(link))
		site.profiles[link] = profile(link, "john", "1 nowhere ln, elsewhere, tx, 70000")
	}
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = cards

	opts := DefaultOptions()
	opts.BaseURL = base
	opts.MaxShortlist = 5
	res, err := New(site, site, opts).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Confidence)
	assert.Equal(t, 4, site.callCount())
	assert.Equal(t, base+"/find/person/1", res.Source)
}

func TestResolve_EscalateFallsThroughToProperty(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	q.Property = model.PostalAddress{Address: "9 Oak Ave", City: "Peoria", State: "IL", Zip: "61602"}
	link := base + "/find/person/p1"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = nil
	site.listings[search.BuildURL(base, q, model.AddressProperty)] = []model.Listing{card(link)}
	site.profiles[link] = profile(link, "john", "9 oak ave, peoria, il, 61602")

	res, err := newResolver(site, ModeEscalate).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 80, res.Confidence)
	assert.Equal(t, model.AddressProperty, res.Strategy)
	assert.Equal(t, "9 oak ave", res.Property.Address)
	assert.Equal(t, q.Mailing, res.Mailing)
}

func TestResolve_EscalateNameOnlyVerifiesPreferredAddress(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	link := base + "/find/person/p1"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = nil
	site.listings[search.BuildURL(base, q, model.AddressNone)] = []model.Listing{card(link)}
	site.profiles[link] = profile(link, "john", "123 main st, springfield, il, 62704")

	res, err := newResolver(site, ModeEscalate).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 80, res.Confidence)
	assert.Equal(t, model.AddressNone, res.Strategy)
	assert.Equal(t, "springfield", res.Mailing.City)
}

func TestResolve_EscalateKeepsBestAcrossStrategies(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	weak, better := base+"/find/person/weak", base+"/find/person/better"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{card(weak)}
	site.listings[search.BuildURL(base, q, model.AddressNone)] = []model.Listing{card(better)}
	site.profiles[weak] = profile(weak, "jon")
	site.profiles[better] = profile(better, "john")

	res, err := newResolver(site, ModeEscalate).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Confidence)
	assert.Equal(t, better, res.Source)
	assert.Equal(t, q.Mailing, res.Mailing)
}

func TestResolve_ContextCancelled(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newResolver(site, ModeLegacy).Resolve(ctx, q)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.PassThrough(q), res)
}

func TestResolve_Idempotent(t *testing.T) {
	site := newFakeSite()
	q := johnSmith()
	link := base + "/find/person/p1"
	site.listings[search.BuildURL(base, q, model.AddressMailing)] = []model.Listing{card(link)}
	site.profiles[link] = profile(link, "john", "77 other rd, chicago, il, 60601", "123 main st, springfield, il, 62704")

	r := newResolver(site, ModeLegacy)
	a, err := r.Resolve(context.Background(), q)
	require.NoError(t, err)
	b, err := r.Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStrategies(t *testing.T) {
	q := johnSmith()
	both := q
	both.Property = model.PostalAddress{Address: "9 Oak Ave"}
	propOnly := model.Query{FirstName: "a", LastName: "b", Property: model.PostalAddress{Address: "9 Oak Ave"}}

	legacy := newResolver(newFakeSite(), ModeLegacy)
	assert.Equal(t, []model.AddressType{model.AddressMailing}, legacy.Strategies(both))
	assert.Equal(t, []model.AddressType{model.AddressProperty}, legacy.Strategies(propOnly))

	esc := newResolver(newFakeSite(), ModeEscalate)
	assert.Equal(t, []model.AddressType{model.AddressMailing, model.AddressProperty, model.AddressNone}, esc.Strategies(both))
	assert.Equal(t, []model.AddressType{model.AddressMailing, model.AddressNone}, esc.Strategies(q))
	assert.Equal(t, []model.AddressType{model.AddressProperty, model.AddressNone}, esc.Strategies(propOnly))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLegacy, m)
	m, err = ParseMode("escalate")
	require.NoError(t, err)
	assert.Equal(t, ModeEscalate, m)
	_, err = ParseMode("always")
	assert.Error(t, err)
}
