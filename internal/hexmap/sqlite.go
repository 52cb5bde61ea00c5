package hexmap

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uber/h3-go/v4"
)

// SQLite is a hex map stored in a SQLite database.
type SQLite struct {
	db         *sql.DB
	tx         *sql.Tx
	insertStmt *sql.Stmt
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// dsn returns path as a SQLite URI filename with the given query.
func dsn(path, query string) string {
	uri := "file:" + uriEscaper.Replace(path)
	if query != "" {
		uri += "?" + query
	}
	return uri
}

// OpenSQLite creates or opens the database at path. All inserts run in a
// single transaction that is committed by Close.
func OpenSQLite(path string, name string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(path, ""))
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (name text PRIMARY KEY, value text);
		CREATE TABLE IF NOT EXISTS cells (cell integer PRIMARY KEY, h3 text, resolution integer, value integer);
		CREATE INDEX IF NOT EXISTS cells_resolution on cells (resolution);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("hexmap: create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, err
	}

	insertStmt, err := tx.Prepare("INSERT OR REPLACE INTO cells (cell, h3, resolution, value) VALUES (?, ?, ?, ?);")
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db, tx: tx, insertStmt: insertStmt}

	if err := s.InsertMeta([][2]string{{"name", name}, {"format", "h3"}}); err != nil {
		s.abort()
		return nil, err
	}
	return s, nil
}

// Insert stores the value of c.
func (s *SQLite) Insert(c h3.Cell, v uint16) error {
	_, err := s.insertStmt.Exec(int64(c), c.String(), c.Resolution(), v)
	return err
}

// InsertMeta sets metadata entries.
func (s *SQLite) InsertMeta(entries [][2]string) error {
	for _, e := range entries {
		if _, err := s.tx.Exec("INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?);", e[0], e[1]); err != nil {
			return err
		}
	}
	return nil
}

// Close commits all inserts and releases the database.
func (s *SQLite) Close() error {
	if err := s.insertStmt.Close(); err != nil {
		s.tx.Rollback()
		s.db.Close()
		return err
	}
	if err := s.tx.Commit(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

func (s *SQLite) abort() {
	s.insertStmt.Close()
	s.tx.Rollback()
	s.db.Close()
}

// WriteSQLite stores m in a new database at path.
func WriteSQLite(path string, name string, m Map) error {
	s, err := OpenSQLite(path, name)
	if err != nil {
		return err
	}
	for _, c := range m.Cells() {
		if err := s.Insert(c, m[c]); err != nil {
			s.abort()
			return err
		}
	}
	if err := s.InsertMeta([][2]string{{"cells", strconv.Itoa(len(m))}}); err != nil {
		s.abort()
		return err
	}
	return s.Close()
}

// ReadSQLite loads all cells from the database at path.
func ReadSQLite(path string) (Map, error) {
	db, err := sql.Open("sqlite3", dsn(path, "mode=ro"))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT cell, value FROM cells;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(Map)
	for rows.Next() {
		var cell int64
		var value uint16
		if err := rows.Scan(&cell, &value); err != nil {
			return nil, err
		}
		m[h3.Cell(cell)] = value
	}
	return m, rows.Err()
}
