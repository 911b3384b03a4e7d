// Package store persists the page cache and the run log.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = eris.New("not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status       model.RunStatus `json:"status,omitempty"`
	CreatedAfter time.Time       `json:"created_after,omitempty"`
	Limit        int             `json:"limit,omitempty"`
	Offset       int             `json:"offset,omitempty"`
}

// Store persists fetched pages and the history of batch runs.
type Store interface {
	// Page cache
	GetPage(ctx context.Context, url string) (*model.PageCache, error)
	PutPage(ctx context.Context, url string, body []byte, ttl time.Duration) error
	DeleteExpiredPages(ctx context.Context) (int, error)

	// Runs
	CreateRun(ctx context.Context, input string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store for driver: "sqlite" (dsn is a file path),
// "postgres" (dsn is a connection string) or "none".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "skiptrace.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		if dsn == "" {
			return nil, eris.New("store: postgres requires store.database_url")
		}
		return NewPostgres(ctx, dsn, nil)
	case "none", "":
		return Nop{}, nil
	}
	return nil, eris.Errorf("store: unknown driver %q", driver)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
