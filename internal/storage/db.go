package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"domicilios/internal"
)

// DB holds the output table of the last processed batch. Every write
// replaces the previous contents.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS requests (
  rowNo INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  identity TEXT NOT NULL,
  address TEXT NOT NULL,
  locality TEXT NOT NULL DEFAULT '',
  neighborhood TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL,
  classification TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requests_identity ON requests(identity);

CREATE TABLE IF NOT EXISTS users (
  identity TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  phone TEXT NOT NULL,
  classification TEXT NOT NULL,
  items INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS user_items (
  identity TEXT NOT NULL,
  seq INTEGER NOT NULL,
  item TEXT NOT NULL,
  PRIMARY KEY (identity, seq)
);
`
	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) ReplaceOutput(batch internal.BatchResult) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM requests`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM user_items`); err != nil {
		return err
	}

	reqStmt, err := tx.Prepare(`
INSERT INTO requests (rowNo, name, identity, address, locality, neighborhood, phone, classification)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer reqStmt.Close()

	for _, r := range batch.Records {
		if _, err := reqStmt.Exec(r.Row, r.Name, r.Identity, r.Address, r.Locality, r.Neighborhood, r.Phone, r.Item); err != nil {
			return err
		}
	}

	userStmt, err := tx.Prepare(`
INSERT INTO users (identity, position, name, address, phone, classification, items)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer userStmt.Close()

	itemStmt, err := tx.Prepare(`INSERT INTO user_items (identity, seq, item) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	for i, u := range batch.Users {
		if _, err := userStmt.Exec(u.Identity, i+1, u.Name, u.Address, u.Phone, u.Classification(), len(u.Items)); err != nil {
			return err
		}
		for seq, item := range u.Items {
			if _, err := itemStmt.Exec(u.Identity, seq+1, item); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (d *DB) ListRequests() ([]internal.LoanRequestRecord, error) {
	rows, err := d.conn.Query(`
SELECT rowNo, name, identity, address, locality, neighborhood, phone, classification
FROM requests ORDER BY rowNo ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.LoanRequestRecord
	for rows.Next() {
		var r internal.LoanRequestRecord
		if err := rows.Scan(&r.Row, &r.Name, &r.Identity, &r.Address, &r.Locality, &r.Neighborhood, &r.Phone, &r.Item); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListUsers returns users in first-seen order with their items as stored,
// one row each, so multi-line items survive.
func (d *DB) ListUsers() ([]internal.AggregatedUserRecord, error) {
	items, err := d.listUserItems()
	if err != nil {
		return nil, err
	}

	rows, err := d.conn.Query(`
SELECT identity, name, address, phone, items
FROM users ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.AggregatedUserRecord
	for rows.Next() {
		var u internal.AggregatedUserRecord
		var count int
		if err := rows.Scan(&u.Identity, &u.Name, &u.Address, &u.Phone, &count); err != nil {
			return nil, err
		}
		u.Items = items[u.Identity]
		if len(u.Items) != count {
			return nil, fmt.Errorf("user %s: %d items stored, expected %d", u.Identity, len(u.Items), count)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (d *DB) listUserItems() (map[string][]string, error) {
	rows, err := d.conn.Query(`SELECT identity, item FROM user_items ORDER BY identity, seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]string{}
	for rows.Next() {
		var identity, item string
		if err := rows.Scan(&identity, &item); err != nil {
			return nil, err
		}
		out[identity] = append(out[identity], item)
	}
	return out, rows.Err()
}
