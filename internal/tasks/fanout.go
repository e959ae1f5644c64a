package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// DefaultMaxWorkers caps fan-out parallelism when the caller does not.
const DefaultMaxWorkers = 10

// Keyed is anything with a deduplication identity.
type Keyed interface {
	Key() string
}

// TaskFunc produces the items for one seed. It is independent of every other
// task and may fail without affecting them.
type TaskFunc[T any] func() ([]T, error)

// FanOutOpts tunes RunAll.
type FanOutOpts struct {
	// MaxWorkers bounds parallelism; the effective pool size is
	// min(len(tasks), MaxWorkers).
	MaxWorkers int
	// Dedupe drops items whose key was already accepted from an
	// earlier-completing task.
	Dedupe  bool
	Limiter *rate.Limiter
	Logger  *log.Logger
}

// RunAll executes every task on a bounded worker pool and merges results in
// completion order — ordering across tasks is non-deterministic and callers
// must not rely on it.
//
// A failing task contributes zero items and is logged; it never aborts its
// siblings or the call. All tasks failing yields an empty slice, which is a
// legitimate result, not an error. Once started, scheduled tasks run to
// completion; ctx only gates the optional rate limiter.
func RunAll[T Keyed](ctx context.Context, tasks map[string]TaskFunc[T], opts FanOutOpts) []T {
	if len(tasks) == 0 {
		return nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	type job struct {
		seed string
		fn   TaskFunc[T]
	}
	type result struct {
		seed  string
		items []T
	}

	jobs := make(chan job, len(tasks))
	results := make(chan result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if opts.Limiter != nil {
					if err := opts.Limiter.Wait(ctx); err != nil {
						if opts.Logger != nil {
							opts.Logger.Warn("fan-out task skipped", "seed", j.seed, "err", err)
						}
						results <- result{seed: j.seed}
						continue
					}
				}
				items, err := j.fn()
				if err != nil {
					// Failure isolation: this seed yields nothing.
					if opts.Logger != nil {
						opts.Logger.Warn("fan-out task failed", "seed", j.seed, "err", err)
					}
					results <- result{seed: j.seed}
					continue
				}
				results <- result{seed: j.seed, items: items}
			}
		}()
	}

	for seed, fn := range tasks {
		jobs <- job{seed: seed, fn: fn}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// The merge loop is the only reader of seen, so no lock is needed.
	var merged []T
	var seen map[string]bool
	if opts.Dedupe {
		seen = make(map[string]bool)
	}
	for res := range results {
		for _, item := range res.items {
			if opts.Dedupe {
				if seen[item.Key()] {
					continue
				}
				seen[item.Key()] = true
			}
			merged = append(merged, item)
		}
	}

	return merged
}
