package store

import (
	"database/sql"
	"time"
)

// Execer is satisfied by *sql.DB, *sql.Tx and DB.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// UpsertStatus inserts or refreshes a cached timeline item.
func (db *DB) UpsertStatus(s *CachedStatus) error {
	return UpsertStatus(db, s)
}

// UpsertStatus is the statement behind DB.UpsertStatus, run on ex so a
// page can be written inside one transaction.
func UpsertStatus(ex Execer, s *CachedStatus) error {
	fetchedAt := s.FetchedAt
	if fetchedAt == 0 {
		fetchedAt = time.Now().UnixMilli()
	}
	_, err := ex.Exec(`
		INSERT INTO statuses (id, screen_name, raw, created_at, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			screen_name = excluded.screen_name,
			raw = excluded.raw,
			fetched_at = excluded.fetched_at`,
		s.ID, s.ScreenName, string(s.Raw), s.CreatedAt, fetchedAt)
	return err
}

// ListStatuses returns cached statuses, newest id first.
func (db *DB) ListStatuses(limit int) ([]CachedStatus, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, screen_name, raw, created_at, fetched_at
		FROM statuses
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CachedStatus
	for rows.Next() {
		var (
			s   CachedStatus
			raw string
		)
		if err := rows.Scan(&s.ID, &s.ScreenName, &raw, &s.CreatedAt, &s.FetchedAt); err != nil {
			return nil, err
		}
		s.Raw = []byte(raw)
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountStatuses returns how many statuses are cached.
func (db *DB) CountStatuses() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM statuses`).Scan(&n)
	return n, err
}

// PruneStatuses keeps only the newest keep statuses.
func (db *DB) PruneStatuses(keep int) (int64, error) {
	res, err := db.Exec(`
		DELETE FROM statuses
		WHERE id NOT IN (SELECT id FROM statuses ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StatusRange returns the newest and oldest cached ids, 0 when the cache is
// empty.
func (db *DB) StatusRange() (newest, oldest int64, err error) {
	var hi, lo sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(id), MIN(id) FROM statuses`).Scan(&hi, &lo); err != nil {
		return 0, 0, err
	}
	return hi.Int64, lo.Int64, nil
}

// ClearStatuses empties the cache.
func (db *DB) ClearStatuses() (int64, error) {
	res, err := db.Exec(`DELETE FROM statuses`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
