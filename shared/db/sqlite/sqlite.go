package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/dfryer1193/agenda/shared/db"
	_ "modernc.org/sqlite"
)

// DefaultPath is the database file used when no path is configured.
const DefaultPath = "./contacts.db"

type SQLiteConfig struct {
	Path string
}

// SQLiteDB implements the db.Database interface for SQLite
type SQLiteDB struct {
	dbPath string
	db     *sql.DB
}

var _ db.Database = (*SQLiteDB)(nil)

// NewSQLiteDB creates a new SQLite database instance.
// An empty cfg.Path falls back to DefaultPath.
func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	return &SQLiteDB{
		dbPath: path,
	}
}

// Connect opens the database file and makes sure the contacts table exists.
func (s *SQLiteDB) Connect() error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: every mutation is serialized and pragmas apply to all statements.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := ensureSchema(conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	s.db = conn
	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying *sql.DB instance
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *SQLiteDB) Path() string {
	return s.dbPath
}
