package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/gorgonia/arbiter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrapf(err, "open %s", s.path)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return errors.Wrapf(err, "ping %s", s.path)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create tables")
	}

	log.Debug().Str("path", s.path).Msg("sqlite store ready")
	s.db = db
	return nil
}

func (s *SQLiteStore) SaveSpace(ctx context.Context, name string, space *arbiter.GlobalPoolingSpace) error {
	payload, err := encodeRecord(name, space)
	if err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO spaces (name, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, name, CurrentSchemaVersion, CurrentCodecVersion, payload)
	return errors.Wrapf(err, "save space %q", name)
}

func (s *SQLiteStore) GetSpace(ctx context.Context, name string) (*arbiter.GlobalPoolingSpace, bool, error) {
	if name == "" {
		return nil, false, ErrEmptyName
	}
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM spaces WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "get space %q", name)
	}

	space, err := decodeRecord(payload)
	if err != nil {
		return nil, false, err
	}
	return space, true, nil
}

func (s *SQLiteStore) ListSpaces(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM spaces ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list spaces")
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan space name")
		}
		names = append(names, name)
	}
	return names, errors.WithStack(rows.Err())
}

func (s *SQLiteStore) DeleteSpace(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM spaces WHERE name = ?`, name)
	return errors.Wrapf(err, "delete space %q", name)
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS spaces (
			name TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
