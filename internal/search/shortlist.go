package search

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/skiptrace-cli/internal/model"
	"github.com/sells-group/skiptrace-cli/internal/name"
)

// MinListingScore is the lowest listing score that survives shortlisting.
const MinListingScore = 65

// ScoreListing applies the listing rule table. Rules are checked top to
// bottom and the first that holds wins:
//
//	first+last, city, middle  85
//	first+last, city          80
//	first+last                75
//	last, city, middle        70
//	last, city                65
//
// Anything else scores 0.
func ScoreListing(l model.Listing, q model.Query) int {
	n := name.Parse(l.Name)
	fullName := n.First == q.FirstName && n.Last == q.LastName
	lastName := n.Last == q.LastName
	middle := n.Middle == q.MiddleName
	city := CityCheck(l.Cities, q.City())

	switch {
	case fullName && city && middle:
		return 85
	case fullName && city:
		return 80
	case fullName:
		return 75
	case lastName && city && middle:
		return 70
	case lastName && city:
		return 65
	}
	return 0
}

// CityCheck reports whether any hint (the part before its first comma)
// contains or is contained in the query city, case-insensitively. An empty
// query city or hint never matches.
func CityCheck(hints []string, queryCity string) bool {
	qc := strings.ToLower(strings.TrimSpace(queryCity))
	if qc == "" {
		return false
	}
	for _, h := range hints {
		c := h
		if i := strings.IndexByte(c, ','); i >= 0 {
			c = c[:i]
		}
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if strings.Contains(qc, c) || strings.Contains(c, qc) {
			return true
		}
	}
	return false
}

// Shortlist scores every listing, drops those under MinListingScore and
// returns at most limit candidates, best first. Equal scores keep page order.
func Shortlist(listings []model.Listing, q model.Query, limit int) []model.CandidateListing {
	var out []model.CandidateListing
	for _, l := range listings {
		score := ScoreListing(l, q)
		if score < MinListingScore || l.DetailLink == "" {
			continue
		}
		out = append(out, model.CandidateListing{Score: score, DetailLink: l.DetailLink})
	}
	if len(out) == 0 {
		zap.L().Debug("search: no listings within criteria",
			zap.Int("listings", len(listings)),
			zap.Int("row", q.Row),
		)
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
