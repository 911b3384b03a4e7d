// Package extract turns people-search HTML pages into listings and person
// profiles.
package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/sells-group/skiptrace-cli/internal/model"
	"github.com/sells-group/skiptrace-cli/internal/name"
)

// ErrNoProfile is returned when a page has no person heading.
var ErrNoProfile = eris.New("extract: page has no profile")

// HTMLExtractor reads the result and detail page markup of the search site.
type HTMLExtractor struct{}

// New returns an HTMLExtractor.
func New() *HTMLExtractor { return &HTMLExtractor{} }

func parse(page *model.Page) (*html.Node, error) {
	if page == nil {
		return nil, eris.New("extract: nil page")
	}
	doc, err := html.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, eris.Wrapf(err, "extract: parse %s", page.URL)
	}
	return doc, nil
}

// Listings returns the person cards of a results page. Detail links are
// resolved against the page URL.
func (HTMLExtractor) Listings(page *model.Page) ([]model.Listing, error) {
	doc, err := parse(page)
	if err != nil {
		return nil, err
	}

	var out []model.Listing
	cards := findAll(doc, func(n *html.Node) bool {
		v, ok := attr(n, "data-detail-link")
		return isElement(n, "div") && ok && strings.Contains(v, "/find/person")
	})
	for _, card := range cards {
		link, _ := attr(card, "data-detail-link")
		heading := findFirst(card, func(n *html.Node) bool {
			return isElement(n, "div") && attrIs(n, "class", "h4")
		})
		out = append(out, model.Listing{
			Name:       ownText(heading),
			Cities:     cityHints(card),
			DetailLink: resolve(page.URL, link),
		})
	}
	return out, nil
}

// cityHints collects the spans that follow a "Lives in" or "Used to live in"
// label span.
func cityHints(card *html.Node) []string {
	var hints []string
	labels := findAll(card, func(n *html.Node) bool {
		if !isElement(n, "span") {
			return false
		}
		t := ownText(n)
		return strings.Contains(t, "Lives") || strings.Contains(t, "Used to live")
	})
	for _, l := range labels {
		for s := l.NextSibling; s != nil; s = s.NextSibling {
			if !isElement(s, "span") {
				continue
			}
			if t := ownText(s); t != "" {
				hints = append(hints, t)
			}
		}
	}
	return hints
}

// Profile reads a person detail page: the heading name, deduplicated
// addresses in page order, up to six phones and up to three distinct emails.
func (HTMLExtractor) Profile(page *model.Page) (*model.PersonProfile, error) {
	doc, err := parse(page)
	if err != nil {
		return nil, err
	}

	h1 := findFirst(doc, func(n *html.Node) bool { return isElement(n, "h1") })
	if h1 == nil || ownText(h1) == "" {
		return nil, eris.Wrapf(ErrNoProfile, "extract: %s", page.URL)
	}
	n := name.Parse(ownText(h1))

	return &model.PersonProfile{
		FirstName:  n.First,
		MiddleName: n.Middle,
		LastName:   n.Last,
		Addresses:  addresses(doc),
		Phones:     phones(doc),
		Emails:     emails(doc),
		Source:     page.URL,
	}, nil
}

func itemprop(n *html.Node, prop string) string {
	span := findFirst(n, func(c *html.Node) bool {
		return isElement(c, "span") && attrIs(c, "itemprop", prop)
	})
	return ownText(span)
}

func addresses(doc *html.Node) []string {
	var out []string
	seen := make(map[string]bool)
	links := findAll(doc, func(n *html.Node) bool {
		return isElement(n, "a") && attrIs(n, "data-link-to-more", "address")
	})
	for _, a := range links {
		street := itemprop(a, "streetAddress")
		city := itemprop(a, "addressLocality")
		region := itemprop(a, "addressRegion")
		zip := itemprop(a, "postalCode")
		if street == "" || city == "" || region == "" || zip == "" {
			continue
		}
		full := street + ", " + city + ", " + region + ", " + zip
		if seen[full] {
			continue
		}
		seen[full] = true
		out = append(out, full)
	}
	return out
}

// phones reads the rows shaped div > (span type, a > span[itemprop=telephone]).
func phones(doc *html.Node) []model.Phone {
	var out []model.Phone
	spans := findAll(doc, func(n *html.Node) bool {
		return isElement(n, "span") && attrIs(n, "itemprop", "telephone")
	})
	for _, s := range spans {
		a := s.Parent
		if !isElement(a, "a") || !isElement(a.Parent, "div") {
			continue
		}
		row := a.Parent
		var typ string
		for c := row.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, "span") {
				typ = ownText(c)
				break
			}
		}
		out = append(out, model.Phone{Number: ownText(s), Type: typ})
		if len(out) == model.MaxPhones {
			break
		}
	}
	return out
}

func emails(doc *html.Node) []string {
	var out []string
	seen := make(map[string]bool)
	icons := findAll(doc, func(n *html.Node) bool {
		v, _ := attr(n, "class")
		return isElement(n, "i") && strings.Contains(v, "fa-envelope")
	})
	for _, icon := range icons {
		if !isElement(icon.Parent, "div") || !isElement(icon.Parent.Parent, "div") {
			continue
		}
		block := icon.Parent.Parent
		for _, d := range findAll(block, func(n *html.Node) bool { return isElement(n, "div") }) {
			t := ownText(d)
			if !strings.Contains(t, "@") || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
			if len(out) == model.MaxEmails {
				return out
			}
		}
	}
	return out
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil || base == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
