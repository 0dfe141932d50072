package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

const currentSchemaVersion = 2

const (
	nextIDKey   = "next_id"
	revisionKey = "revision"
)

// SQLiteStorage implements Storage using a SQLite database. Every Save
// bumps a tree revision so writes that only touch preferences can be
// told apart from tree changes.
type SQLiteStorage struct {
	db   *sqlx.DB
	path string

	mu   sync.Mutex
	seen int64 // revision of the last Load or Save
}

// nodeRow is the nodes table layout. Times are RFC3339 text.
type nodeRow struct {
	Seq            int            `db:"seq"`
	ID             int64          `db:"id"`
	Type           int            `db:"type"`
	GUID           string         `db:"guid"`
	ParentID       int64          `db:"parent_id"`
	Position       int            `db:"position"`
	Title          string         `db:"title"`
	URL            string         `db:"url"`
	IsFolder       bool           `db:"is_folder"`
	DateAdded      string         `db:"date_added"`
	DateLastOpened sql.NullString `db:"date_last_opened"`
	Read           bool           `db:"read"`
	Meta           sql.NullString `db:"meta"`
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// KV returns the preference store sharing this database.
func (s *SQLiteStorage) KV() *SQLiteKV {
	return &SQLiteKV{db: s.db}
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	if err := s.db.Get(&version, "SELECT version FROM schema_version LIMIT 1"); err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}
	if version > currentSchemaVersion {
		log.Warn("database schema is newer than this binary", "version", version)
	}
	return nil
}

// migrateV1 creates the node tree schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS nodes (
			seq INTEGER NOT NULL,
			id INTEGER PRIMARY KEY NOT NULL,
			type INTEGER NOT NULL DEFAULT 0,
			guid TEXT NOT NULL,
			parent_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			is_folder INTEGER NOT NULL DEFAULT 0,
			date_added TEXT NOT NULL,
			date_last_opened TEXT,
			read INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_parent_id ON nodes(parent_id);
		CREATE INDEX IF NOT EXISTS idx_nodes_url ON nodes(url);

		CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds power bookmark meta and the preference table.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		ALTER TABLE nodes ADD COLUMN meta TEXT;

		CREATE TABLE IF NOT EXISTS prefs (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// Load reads the snapshot from the SQLite database.
func (s *SQLiteStorage) Load() (*store.Snapshot, error) {
	snap := &store.Snapshot{Version: store.SnapshotVersion}

	var rows []nodeRow
	if err := s.db.Select(&rows, `SELECT * FROM nodes ORDER BY seq`); err != nil {
		return nil, err
	}

	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			log.Warn("skipping unreadable row", "id", r.ID, "err", err)
			continue
		}
		snap.Nodes = append(snap.Nodes, rec)
	}

	next, err := stateInt(s.db, nextIDKey)
	if err != nil {
		return nil, err
	}
	snap.NextID = next

	rev, err := stateInt(s.db, revisionKey)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.seen = rev
	s.mu.Unlock()

	return snap, nil
}

// Changed reports whether the tree was saved by someone else since
// this storage last loaded or saved it.
func (s *SQLiteStorage) Changed() (bool, error) {
	rev, err := stateInt(s.db, revisionKey)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return rev != s.seen, nil
}

// stateInt reads an integer from the state table. Missing keys are 0.
func stateInt(q sqlx.Queryer, key string) (int64, error) {
	var value string
	err := sqlx.Get(q, &value, `SELECT value FROM state WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, _ := strconv.ParseInt(value, 10, 64)
	return n, nil
}

// Save writes the snapshot to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(snap *store.Snapshot) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return err
	}

	for i, rec := range snap.Nodes {
		row, err := newNodeRow(i, rec)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExec(`
			INSERT INTO nodes (seq, id, type, guid, parent_id, position, title, url,
				is_folder, date_added, date_last_opened, read, meta)
			VALUES (:seq, :id, :type, :guid, :parent_id, :position, :title, :url,
				:is_folder, :date_added, :date_last_opened, :read, :meta)
		`, row); err != nil {
			return fmt.Errorf("insert node %d: %w", rec.ID, err)
		}
	}

	rev, err := stateInt(tx, revisionKey)
	if err != nil {
		return err
	}
	rev++
	state := map[string]int64{nextIDKey: snap.NextID, revisionKey: rev}
	for key, value := range state {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO state (key, value) VALUES (?, ?)`,
			key, strconv.FormatInt(value, 10),
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.mu.Lock()
	s.seen = rev
	s.mu.Unlock()
	return nil
}

func newNodeRow(seq int, rec store.NodeRecord) (nodeRow, error) {
	row := nodeRow{
		Seq:       seq,
		ID:        rec.ID,
		Type:      int(rec.Type),
		GUID:      rec.GUID,
		ParentID:  rec.ParentID,
		Position:  rec.Index,
		Title:     rec.Title,
		URL:       rec.URL,
		IsFolder:  rec.IsFolder,
		DateAdded: rec.DateAdded.Format(time.RFC3339Nano),
		Read:      rec.Read,
	}
	if rec.DateLastOpened != nil {
		row.DateLastOpened = sql.NullString{String: rec.DateLastOpened.Format(time.RFC3339Nano), Valid: true}
	}
	if rec.Meta != nil {
		data, err := json.Marshal(rec.Meta)
		if err != nil {
			return nodeRow{}, err
		}
		row.Meta = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}

func (r nodeRow) record() (store.NodeRecord, error) {
	rec := store.NodeRecord{
		ID:       r.ID,
		Type:     model.BookmarkType(r.Type),
		GUID:     r.GUID,
		ParentID: r.ParentID,
		Index:    r.Position,
		Title:    r.Title,
		URL:      r.URL,
		IsFolder: r.IsFolder,
		Read:     r.Read,
	}

	var err error
	if rec.DateAdded, err = time.Parse(time.RFC3339Nano, r.DateAdded); err != nil {
		return rec, err
	}
	if r.DateLastOpened.Valid {
		if t, err := time.Parse(time.RFC3339Nano, r.DateLastOpened.String); err == nil {
			rec.DateLastOpened = &t
		}
	}
	if r.Meta.Valid && r.Meta.String != "" {
		var meta model.PowerBookmarkMeta
		if err := json.Unmarshal([]byte(r.Meta.String), &meta); err != nil {
			return rec, fmt.Errorf("decode meta: %w", err)
		}
		rec.Meta = &meta
	}
	return rec, nil
}
