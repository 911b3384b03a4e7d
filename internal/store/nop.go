package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// Nop is a Store that keeps nothing. Every page lookup misses and runs are
// not recorded.
type Nop struct{}

func (Nop) GetPage(context.Context, string) (*model.PageCache, error) { return nil, nil }

func (Nop) PutPage(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) DeleteExpiredPages(context.Context) (int, error) { return 0, nil }

func (Nop) CreateRun(_ context.Context, input string) (*model.Run, error) {
	now := time.Now().UTC()
	return &model.Run{
		ID:        uuid.New().String(),
		Input:     input,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (Nop) CompleteRun(context.Context, string, *model.RunSummary) error { return nil }

func (Nop) FailRun(context.Context, string, string) error { return nil }

func (Nop) GetRun(context.Context, string) (*model.Run, error) { return nil, ErrNotFound }

func (Nop) ListRuns(context.Context, RunFilter) ([]model.Run, error) { return nil, nil }

func (Nop) Migrate(context.Context) error { return nil }

func (Nop) Close() error { return nil }
