package name

import (
	"strings"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// Name match points.
const (
	FullNamePoints    = 30
	LastNamePoints    = 20
	MiddleFirstPoints = 10
	MiddleOnlyPoints  = 5
)

// Match scores name agreement between a query and a profile. The full-name
// and middle-name parts are independent and summed.
func Match(q model.Query, p *model.PersonProfile) int {
	if p == nil {
		return 0
	}
	score := 0
	firstEq := q.FirstName == p.FirstName
	lastEq := q.LastName == p.LastName
	switch {
	case firstEq && lastEq:
		score += FullNamePoints
	case lastEq:
		score += LastNamePoints
	}

	qm := strings.TrimSpace(q.MiddleName)
	pm := strings.TrimSpace(p.MiddleName)
	if qm != "" && pm != "" && strings.Contains(pm, qm) {
		if firstEq {
			score += MiddleFirstPoints
		} else {
			score += MiddleOnlyPoints
		}
	}
	return score
}
