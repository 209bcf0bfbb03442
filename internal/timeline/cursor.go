package timeline

import "github.com/matheus3301/weibo/internal/store"

// Cursor reports the id range the cache covers. The range is read from the
// cached rows themselves, so pruning and clearing keep it accurate.
type Cursor struct {
	db *store.DB
}

// NewCursor creates a cursor over the status cache.
func NewCursor(db *store.DB) *Cursor {
	return &Cursor{db: db}
}

// Range returns the newest and oldest cached ids, 0 when the cache is empty.
func (c *Cursor) Range() (newest, oldest int64, err error) {
	return c.db.StatusRange()
}

// Reset drops the cache, e.g. after logout, so the next account starts
// from an empty range.
func (c *Cursor) Reset() error {
	_, err := c.db.ClearStatuses()
	return err
}
