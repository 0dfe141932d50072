package storage

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SQLiteKV is a string key-value table in the bookmarks database.
type SQLiteKV struct {
	db *sqlx.DB
}

// Get returns the value for key and whether it was present.
func (kv *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := kv.db.Get(&value, `SELECT value FROM prefs WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key.
func (kv *SQLiteKV) Set(key, value string) error {
	_, err := kv.db.Exec(`INSERT OR REPLACE INTO prefs (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Delete removes key. Missing keys are not an error.
func (kv *SQLiteKV) Delete(key string) error {
	_, err := kv.db.Exec(`DELETE FROM prefs WHERE key = ?`, key)
	return err
}
