//go:build !libpostal

package address

// DefaultParser returns the rule-based tagger. Build with -tags libpostal to
// use libpostal instead.
func DefaultParser() Parser { return RuleParser{} }
