package model

// MaxPhones and MaxEmails cap what a profile carries into a result row.
const (
	MaxPhones = 6
	MaxEmails = 3
)

// Phone is a number with its display type (e.g. "Wireless", "Landline").
type Phone struct {
	Number string `json:"number" yaml:"number"`
	Type   string `json:"type" yaml:"type"`
}

// PersonProfile is the structured content of one person detail page.
// Addresses are ordered most-current first. Never modified after extraction.
type PersonProfile struct {
	FirstName  string   `json:"first_name"`
	MiddleName string   `json:"middle_name"`
	LastName   string   `json:"last_name"`
	Addresses  []string `json:"addresses"`
	Phones     []Phone  `json:"phones"`
	Emails     []string `json:"emails"`
	Source     string   `json:"source"`
}

// Listing is one result card from a search results page.
type Listing struct {
	Name       string   `json:"name"`
	Cities     []string `json:"cities"`
	DetailLink string   `json:"detail_link"`
}

// CandidateListing is a listing that survived shortlisting, with its score.
type CandidateListing struct {
	Score      int    `json:"score"`
	DetailLink string `json:"detail_link"`
}
