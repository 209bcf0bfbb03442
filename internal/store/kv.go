package store

import (
	"database/sql"
	"strconv"
)

// Keys used in the kv table.
const (
	KeyUnreadCount = "unread_count"
)

// SetState stores a string value under key.
func (db *DB) SetState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetState returns the value under key and whether it exists.
func (db *DB) GetState(key string) (string, bool, error) {
	var v string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// GetInt is GetState for integer values; malformed values read as missing.
func (db *DB) GetInt(key string) (int, bool, error) {
	v, ok, err := db.GetState(key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil {
		return 0, false, nil
	}
	return n, true, nil
}
