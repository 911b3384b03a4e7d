// Package search builds people-search requests and shortlists the result
// cards they return.
package search

import (
	"net/url"
	"strings"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// DefaultBaseURL is the people-search site queried when none is configured.
const DefaultBaseURL = "https://www.truepeoplesearch.com"

// Search request parameters.
const (
	ParamName          = "name"
	ParamStreetAddress = "streetaddress"
	ParamCityStateZip  = "citystatezip"
)

// BuildURL returns the results URL for q under strategy at. The mailing and
// property strategies search by street plus "city, state" (zip when both are
// empty); the name-only strategy searches by "first last" plus the mailing
// location, falling back to the property location.
func BuildURL(baseURL string, q model.Query, at model.AddressType) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	params := url.Values{}
	switch at {
	case model.AddressMailing, model.AddressProperty:
		addr := q.Address(at)
		params.Set(ParamStreetAddress, addr.Address)
		params.Set(ParamCityStateZip, orElse(addr.CityState(), model.NormalizeZip(addr.Zip)))
	default:
		loc := model.PostalAddress{
			City:  orElse(q.Mailing.City, q.Property.City),
			State: orElse(q.Mailing.State, q.Property.State),
			Zip:   orElse(model.NormalizeZip(q.Mailing.Zip), model.NormalizeZip(q.Property.Zip)),
		}
		params.Set(ParamName, strings.TrimSpace(q.FirstName+" "+q.LastName))
		params.Set(ParamCityStateZip, orElse(loc.CityState(), loc.Zip))
	}
	return strings.TrimRight(baseURL, "/") + "/results?" + params.Encode()
}

func orElse(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(fallback)
}
