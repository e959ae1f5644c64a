package tasks

import (
	"github.com/charmbracelet/log"
)

const (
	// DefaultPageSize is the per-call batch size when the caller does not set one.
	DefaultPageSize = 100

	// DefaultMaxPages bounds the pagination loop when a remote API ignores
	// offset and echoes a full page forever. 100 pages at 100 items is well
	// beyond any realistic TIDAL collection.
	DefaultMaxPages = 100
)

// PageFunc fetches one page of a paginated listing. Offset bookkeeping is by
// convention only; no state is retained between calls.
type PageFunc[T any] func(limit, offset int) ([]T, error)

// FetchOpts tunes FetchAll.
type FetchOpts struct {
	// MaxItems caps the result. Negative fetches everything; zero
	// short-circuits to an empty result without calling the page func.
	MaxItems int
	PageSize int
	// MaxPages is the hard page-count ceiling. Reaching it is not an error;
	// the fetch stops and returns what it has.
	MaxPages int
	Logger   *log.Logger
}

// FetchAll walks an offset/limit listing API and materializes the result.
//
// The loop terminates on an empty page, a page shorter than requested,
// MaxItems reached (the final batch is clipped to exactly the remaining
// need), or the MaxPages ceiling. A page-level error stops the walk and
// returns the items gathered so far.
func FetchAll[T any](fetch PageFunc[T], opts FetchOpts) []T {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.MaxItems == 0 {
		return nil
	}

	var all []T
	offset := 0
	pages := 0

	for {
		if pages >= opts.MaxPages {
			if opts.Logger != nil {
				opts.Logger.Warn("pagination safety limit reached",
					"pages", pages, "items", len(all))
			}
			break
		}

		batch := opts.PageSize
		if opts.MaxItems > 0 {
			remaining := opts.MaxItems - len(all)
			if remaining <= 0 {
				break
			}
			if remaining < batch {
				batch = remaining
			}
		}

		items, err := fetch(batch, offset)
		if err != nil {
			// Partial data is more useful than none for a listing operation.
			if opts.Logger != nil {
				opts.Logger.Warn("pagination stopped on error",
					"offset", offset, "items", len(all), "err", err)
			}
			break
		}
		if len(items) == 0 {
			break
		}

		all = append(all, items...)
		pages++

		// A short page signals end-of-data.
		if len(items) < batch {
			break
		}

		offset += len(items)
	}

	return all
}
