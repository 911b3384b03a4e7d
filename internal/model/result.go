package model

// MatchResult is the terminal output for one Query.
type MatchResult struct {
	Confidence int         `json:"confidence" yaml:"confidence"`
	Strategy   AddressType `json:"strategy" yaml:"strategy"`

	FirstName  string        `json:"first_name" yaml:"first_name"`
	MiddleName string        `json:"middle_name" yaml:"middle_name"`
	LastName   string        `json:"last_name" yaml:"last_name"`
	Property   PostalAddress `json:"property" yaml:"property"`
	Mailing    PostalAddress `json:"mailing" yaml:"mailing"`

	Phones []Phone  `json:"phones,omitempty" yaml:"phones,omitempty"`
	Emails []string `json:"emails,omitempty" yaml:"emails,omitempty"`
	Source string   `json:"source,omitempty" yaml:"source,omitempty"`

	Row int `json:"row,omitempty" yaml:"row,omitempty"`
}

// PassThrough returns the zero-confidence result for q: the query fields
// unchanged and no contact data.
func PassThrough(q Query) MatchResult {
	return MatchResult{
		Strategy:   AddressNone,
		FirstName:  q.FirstName,
		MiddleName: q.MiddleName,
		LastName:   q.LastName,
		Property:   q.Property,
		Mailing:    q.Mailing,
		Row:        q.Row,
	}
}

// Matched reports whether a candidate was accepted.
func (r MatchResult) Matched() bool { return r.Confidence > 0 }
