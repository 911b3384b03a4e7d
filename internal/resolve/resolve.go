// Package resolve runs the search cascade for one identity query and picks
// the best-matching person profile.
package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/skiptrace-cli/internal/address"
	"github.com/sells-group/skiptrace-cli/internal/model"
	"github.com/sells-group/skiptrace-cli/internal/name"
	"github.com/sells-group/skiptrace-cli/internal/search"
)

// Fetcher retrieves a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Page, error)
}

// Extractor turns fetched pages into listings and profiles.
type Extractor interface {
	Listings(page *model.Page) ([]model.Listing, error)
	Profile(page *model.Page) (*model.PersonProfile, error)
}

// Mode selects how a strategy that produced no accepted candidate is handled.
type Mode string

const (
	// ModeLegacy evaluates only the entry strategy. Its best nonzero
	// composite, or the zero-confidence pass-through, is final.
	ModeLegacy Mode = "legacy"
	// ModeEscalate falls through mailing, property and name-only searches
	// until a candidate is accepted, then keeps the best nonzero composite.
	ModeEscalate Mode = "escalate"
)

// ParseMode validates a mode name. Empty means legacy.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLegacy, "":
		return ModeLegacy, nil
	case ModeEscalate:
		return ModeEscalate, nil
	}
	return "", eris.Errorf("resolve: unknown cascade mode %q", s)
}

// Options tunes a Resolver.
type Options struct {
	BaseURL         string
	AcceptThreshold int
	MaxShortlist    int
	MaxCandidates   int
	Mode            Mode
	Matcher         *address.Matcher
}

// DefaultOptions returns threshold 75, one shortlisted listing, at most three
// candidates per strategy and legacy mode.
func DefaultOptions() Options {
	return Options{
		BaseURL:         search.DefaultBaseURL,
		AcceptThreshold: 75,
		MaxShortlist:    1,
		MaxCandidates:   3,
		Mode:            ModeLegacy,
	}
}

// Resolver is safe for concurrent use; all per-query state is local to
// Resolve.
type Resolver struct {
	fetcher   Fetcher
	extractor Extractor
	opts      Options
}

// New creates a Resolver. Zero option fields take their defaults.
func New(f Fetcher, e Extractor, opts Options) *Resolver {
	d := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = d.BaseURL
	}
	if opts.AcceptThreshold <= 0 {
		opts.AcceptThreshold = d.AcceptThreshold
	}
	if opts.MaxShortlist <= 0 {
		opts.MaxShortlist = d.MaxShortlist
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = d.MaxCandidates
	}
	if opts.Mode == "" {
		opts.Mode = d.Mode
	}
	if opts.Matcher == nil {
		opts.Matcher = address.NewMatcher(nil)
	}
	return &Resolver{fetcher: f, extractor: e, opts: opts}
}

// Strategies returns the address strategies tried for q, in order.
func (r *Resolver) Strategies(q model.Query) []model.AddressType {
	entry := q.PreferredAddressType()
	if r.opts.Mode == ModeLegacy {
		return []model.AddressType{entry}
	}
	out := []model.AddressType{entry}
	if entry == model.AddressMailing && q.HasProperty() {
		out = append(out, model.AddressProperty)
	}
	return append(out, model.AddressNone)
}

// Resolve produces exactly one result for q. A candidate whose composite
// score reaches the accept threshold ends the search at once. An error is
// returned only when ctx is done, together with the pass-through result.
func (r *Resolver) Resolve(ctx context.Context, q model.Query) (model.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return model.PassThrough(q), err
	}

	var best *model.MatchResult
	for _, at := range r.Strategies(q) {
		res, accepted, err := r.evaluate(ctx, q, at)
		if err != nil {
			return model.PassThrough(q), err
		}
		if accepted {
			return *res, nil
		}
		if res != nil && (best == nil || res.Confidence > best.Confidence) {
			best = res
		}
	}
	if best != nil {
		return *best, nil
	}
	return model.PassThrough(q), nil
}

// evaluate runs one strategy. It returns the best nonzero candidate (or nil)
// and whether it was accepted. Fetch and extraction failures mean no
// candidate; only context errors are returned.
func (r *Resolver) evaluate(ctx context.Context, q model.Query, at model.AddressType) (*model.MatchResult, bool, error) {
	log := zap.L().With(zap.Int("row", q.Row), zap.Stringer("strategy", at))

	url := search.BuildURL(r.opts.BaseURL, q, at)
	page, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		log.Warn("search fetch failed", zap.String("url", url), zap.Error(err))
		return nil, false, nil
	}
	listings, err := r.extractor.Listings(page)
	if err != nil {
		log.Warn("listing extraction failed", zap.String("url", url), zap.Error(err))
		return nil, false, nil
	}

	shortlist := search.Shortlist(listings, q, r.opts.MaxShortlist)
	if len(shortlist) == 0 {
		log.Info("no results found within criteria", zap.Int("listings", len(listings)))
		return nil, false, nil
	}

	var best *model.MatchResult
	for i, c := range shortlist {
		if i >= r.opts.MaxCandidates {
			break
		}
		res, err := r.score(ctx, q, at, c)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			log.Warn("candidate skipped", zap.String("url", c.DetailLink), zap.Error(err))
			continue
		}
		if res.Confidence >= r.opts.AcceptThreshold {
			log.Info("candidate accepted", zap.Int("confidence", res.Confidence), zap.String("source", res.Source))
			return res, true, nil
		}
		if res.Confidence > 0 && (best == nil || res.Confidence > best.Confidence) {
			best = res
		}
	}
	if best != nil {
		log.Info("highest score below threshold", zap.Int("confidence", best.Confidence))
	}
	return best, false, nil
}

// score fetches one candidate profile and builds its result.
func (r *Resolver) score(ctx context.Context, q model.Query, at model.AddressType, c model.CandidateListing) (*model.MatchResult, error) {
	page, err := r.fetcher.Fetch(ctx, c.DetailLink)
	if err != nil {
		return nil, eris.Wrap(err, "fetch profile")
	}
	p, err := r.extractor.Profile(page)
	if err != nil {
		return nil, eris.Wrap(err, "extract profile")
	}

	ms := r.opts.Matcher.Match(q, at, p)
	ns := name.Match(q, p)
	zap.L().Debug("candidate scored",
		zap.Int("row", q.Row),
		zap.String("url", c.DetailLink),
		zap.Int("listing_score", c.Score),
		zap.Int("address_score", ms.Score),
		zap.Int("address_best", ms.Best),
		zap.Int("name_score", ns),
	)
	res := r.merge(q, at, p, ms, ms.Score+ns)
	return &res, nil
}

// merge builds the result for a scored profile. The address group the
// strategy searched by is replaced with the profile's best-matching address
// when that address passed the gate; the other group passes through.
func (r *Resolver) merge(q model.Query, at model.AddressType, p *model.PersonProfile, ms address.MatchScore, score int) model.MatchResult {
	res := model.PassThrough(q)
	res.Confidence = score
	res.Strategy = at
	res.Source = p.Source
	if len(p.Phones) > 0 {
		res.Phones = append([]model.Phone(nil), p.Phones[:min(len(p.Phones), model.MaxPhones)]...)
	}
	if len(p.Emails) > 0 {
		res.Emails = append([]string(nil), p.Emails[:min(len(p.Emails), model.MaxEmails)]...)
	}

	if ms.Score > 0 && ms.BestIndex >= 0 && ms.BestIndex < len(p.Addresses) {
		verified := address.Split(r.opts.Matcher.Parser(), p.Addresses[ms.BestIndex])
		switch verifiedType(q, at) {
		case model.AddressMailing:
			res.Mailing = verified
		case model.AddressProperty:
			res.Property = verified
		}
	}
	return res
}

func verifiedType(q model.Query, at model.AddressType) model.AddressType {
	if at == model.AddressNone {
		return q.PreferredAddressType()
	}
	return at
}
