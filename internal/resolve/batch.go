package resolve

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// Sink receives one result per query, in completion order.
type Sink interface {
	Write(r model.MatchResult) error
}

// BatchStats summarises a batch.
type BatchStats struct {
	Processed int64
	Matched   int64
	Duration  time.Duration
}

// Batch resolves queries with at most concurrency in flight and writes each
// result to sink. Writes are serialized. The first sink error or context
// cancellation stops the batch.
func Batch(ctx context.Context, r *Resolver, queries []model.Query, sink Sink, concurrency int) (BatchStats, error) {
	start := time.Now()
	if concurrency < 1 {
		concurrency = 1
	}
	total := int64(len(queries))

	zap.L().Info("processing batch",
		zap.Int64("queries", total),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var processed, matched atomic.Int64
	var mu sync.Mutex

	for _, q := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := r.Resolve(gctx, q)
			if err != nil {
				return err
			}

			mu.Lock()
			werr := sink.Write(res)
			mu.Unlock()
			if werr != nil {
				return eris.Wrapf(werr, "write result for row %d", q.Row)
			}

			if res.Matched() {
				matched.Add(1)
			}
			n := processed.Add(1)
			zap.L().Info("processed",
				zap.Int64("processed", n),
				zap.Int64("remaining", total-n),
				zap.Int("row", q.Row),
				zap.Int("confidence", res.Confidence),
			)
			return nil
		})
	}

	err := g.Wait()
	stats := BatchStats{
		Processed: processed.Load(),
		Matched:   matched.Load(),
		Duration:  time.Since(start),
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return stats, eris.Wrap(err, "batch")
	}

	zap.L().Info("batch complete",
		zap.Int64("processed", stats.Processed),
		zap.Int64("matched", stats.Matched),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}
