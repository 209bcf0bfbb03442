package model

import (
	"context"
	"sync"

	"github.com/matheus3301/weibo/internal/weibo"
)

// maxEmptyPullups is how many consecutive empty load-more pages end paging.
const maxEmptyPullups = 3

// Fetcher loads one page of the home timeline. A nil slice with a nil
// error is not expected; failures are reported as errors.
type Fetcher interface {
	FetchStatuses(ctx context.Context, sinceID, maxID int64) ([]*weibo.Status, error)
}

// StatusListViewModel owns the ordered row collection of the home timeline,
// newest first.
type StatusListViewModel struct {
	mu           sync.RWMutex
	fetcher      Fetcher
	rows         []*StatusViewModel
	width        int
	emptyPullups int
}

// NewStatusListViewModel creates an empty list backed by f.
func NewStatusListViewModel(f Fetcher) *StatusListViewModel {
	return &StatusListViewModel{fetcher: f, width: 80}
}

// LoadStatus fetches newer statuses (pullup false) or older ones (pullup
// true). ok is false when the fetch failed, in which case the collection is
// unchanged. shouldRefresh is false when a load-more returned nothing.
//
// After three consecutive empty load-more pages further load-more calls
// return (true, false) without a request.
func (l *StatusListViewModel) LoadStatus(ctx context.Context, pullup bool) (ok, shouldRefresh bool) {
	l.mu.RLock()
	if pullup && l.emptyPullups >= maxEmptyPullups {
		l.mu.RUnlock()
		return true, false
	}
	var sinceID, maxID int64
	if n := len(l.rows); n > 0 {
		if pullup {
			maxID = l.rows[n-1].ID()
		} else {
			sinceID = l.rows[0].ID()
		}
	}
	width := l.width
	l.mu.RUnlock()

	list, err := l.fetcher.FetchStatuses(ctx, sinceID, maxID)
	if err != nil || ctx.Err() != nil {
		return false, false
	}

	page := make([]*StatusViewModel, 0, len(list))
	for _, s := range list {
		if s != nil {
			page = append(page, NewStatusViewModel(s, width))
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if pullup {
		l.rows = append(l.rows, page...)
		if len(page) == 0 {
			l.emptyPullups++
			return true, false
		}
		l.emptyPullups = 0
		return true, true
	}

	l.rows = append(page, l.rows...)
	return true, true
}

// Seed fills an empty list, e.g. from the daemon's cache. It is a no-op once
// rows exist.
func (l *StatusListViewModel) Seed(list []*weibo.Status) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.rows) > 0 {
		return false
	}
	for _, s := range list {
		if s != nil {
			l.rows = append(l.rows, NewStatusViewModel(s, l.width))
		}
	}
	return len(l.rows) > 0
}

// Reset drops all rows and the load-more counter.
func (l *StatusListViewModel) Reset() {
	l.mu.Lock()
	l.rows = nil
	l.emptyPullups = 0
	l.mu.Unlock()
}

// SetWidth updates the layout width of every row.
func (l *StatusListViewModel) SetWidth(width int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if width == l.width {
		return
	}
	l.width = width
	for _, r := range l.rows {
		r.SetWidth(width)
	}
}

// Width returns the layout width.
func (l *StatusListViewModel) Width() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.width
}

// Len returns the number of rows.
func (l *StatusListViewModel) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}

// At returns row i, or nil when out of range.
func (l *StatusListViewModel) At(i int) *StatusViewModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.rows) {
		return nil
	}
	return l.rows[i]
}

// Rows returns a snapshot of the collection.
func (l *StatusListViewModel) Rows() []*StatusViewModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*StatusViewModel, len(l.rows))
	copy(out, l.rows)
	return out
}
