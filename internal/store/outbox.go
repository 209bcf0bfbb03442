package store

import (
	"database/sql"
	"time"
)

// QueueOutbox adds a status to the post outbox.
func (db *DB) QueueOutbox(clientID, text, imagePath string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO outbox (client_id, text, image_path, status, created_at, updated_at)
		VALUES (?, ?, ?, 'queued', ?, ?)`,
		clientID, text, imagePath, now, now)
	return err
}

// MarkOutboxSending updates an outbox entry to 'sending' status.
func (db *DB) MarkOutboxSending(clientID string) error {
	return db.setOutboxStatus(clientID, OutboxSending, "", "")
}

// MarkOutboxSent updates an outbox entry to 'sent' with the server status id.
func (db *DB) MarkOutboxSent(clientID, serverID string) error {
	return db.setOutboxStatus(clientID, OutboxSent, "", serverID)
}

// MarkOutboxFailed updates an outbox entry to 'failed' with an error message.
func (db *DB) MarkOutboxFailed(clientID, errMsg string) error {
	return db.setOutboxStatus(clientID, OutboxFailed, errMsg, "")
}

// RequeueOutbox puts an entry back in the queue, keeping its last error.
func (db *DB) RequeueOutbox(clientID, errMsg string) error {
	return db.setOutboxStatus(clientID, OutboxQueued, errMsg, "")
}

// ResetSendingOutbox requeues entries left in 'sending' by a daemon that
// stopped mid-post.
func (db *DB) ResetSendingOutbox() (int64, error) {
	res, err := db.Exec(`
		UPDATE outbox SET status = 'queued', updated_at = ?
		WHERE status = 'sending'`, time.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FailQueuedOutbox marks every queued entry failed with errMsg and returns
// their client ids, oldest first.
func (db *DB) FailQueuedOutbox(errMsg string) ([]string, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.Query(`
		SELECT client_id FROM outbox
		WHERE status = 'queued' ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		UPDATE outbox SET status = 'failed', error_message = ?, updated_at = ?
		WHERE status = 'queued'`, errMsg, time.Now().UnixMilli()); err != nil {
		return nil, err
	}
	return ids, tx.Commit()
}

func (db *DB) setOutboxStatus(clientID, status, errMsg, serverID string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		UPDATE outbox
		SET status = ?, error_message = ?, server_id = ?, updated_at = ?
		WHERE client_id = ?`,
		status, errMsg, serverID, now, clientID)
	return err
}

// PendingOutbox returns outbox entries that are still queued, oldest first.
func (db *DB) PendingOutbox() ([]OutboxEntry, error) {
	rows, err := db.Query(`
		SELECT id, client_id, text, image_path, status, error_message, server_id
		FROM outbox WHERE status = 'queued' ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []OutboxEntry
	for rows.Next() {
		var e OutboxEntry
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Text, &e.ImagePath, &e.Status, &e.ErrorMessage, &e.ServerID); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetOutbox returns one outbox entry, or nil if the client id is unknown.
func (db *DB) GetOutbox(clientID string) (*OutboxEntry, error) {
	var e OutboxEntry
	err := db.QueryRow(`
		SELECT id, client_id, text, image_path, status, error_message, server_id
		FROM outbox WHERE client_id = ?`, clientID).
		Scan(&e.ID, &e.ClientID, &e.Text, &e.ImagePath, &e.Status, &e.ErrorMessage, &e.ServerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
