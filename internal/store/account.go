package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/matheus3301/weibo/internal/weibo"
)

// SaveAccount stores the signed-in account, replacing any previous one.
func (db *DB) SaveAccount(ctx context.Context, a *weibo.Account) error {
	var expiresAt int64
	if !a.ExpiresAt.IsZero() {
		expiresAt = a.ExpiresAt.UnixMilli()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO account (id, uid, access_token, expires_in, expires_at, screen_name, avatar_large, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uid = excluded.uid,
			access_token = excluded.access_token,
			expires_in = excluded.expires_in,
			expires_at = excluded.expires_at,
			screen_name = excluded.screen_name,
			avatar_large = excluded.avatar_large,
			updated_at = excluded.updated_at`,
		a.UID, a.AccessToken, a.ExpiresIn, expiresAt, a.ScreenName, a.AvatarLarge, time.Now().UnixMilli())
	return err
}

// LoadAccount returns the stored account, or nil if none was saved.
func (db *DB) LoadAccount(ctx context.Context) (*weibo.Account, error) {
	var (
		a         weibo.Account
		expiresAt int64
	)
	err := db.QueryRowContext(ctx, `
		SELECT uid, access_token, expires_in, expires_at, screen_name, avatar_large
		FROM account WHERE id = 1`).
		Scan(&a.UID, &a.AccessToken, &a.ExpiresIn, &expiresAt, &a.ScreenName, &a.AvatarLarge)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if expiresAt > 0 {
		a.ExpiresAt = time.UnixMilli(expiresAt)
	}
	return &a, nil
}

// DeleteAccount forgets the stored account.
func (db *DB) DeleteAccount(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM account WHERE id = 1`)
	return err
}
