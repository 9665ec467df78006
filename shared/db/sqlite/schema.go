package sqlite

import (
	"database/sql"
	"fmt"
)

// ContactsTable is the name of the single table this system stores.
const ContactsTable = "Contacts"

// schema is created when absent and never altered afterwards.
var schema = []struct {
	name string
	ddl  string
}{
	{
		name: "create_contacts_table",
		ddl: `
			CREATE TABLE IF NOT EXISTS Contacts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT,
				surname TEXT,
				phone TEXT,
				email TEXT,
				image TEXT,
				address TEXT
			)
		`,
	},
}

// ensureSchema runs every statement in schema inside one transaction.
func ensureSchema(conn *sql.DB) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	for _, s := range schema {
		if _, err := tx.Exec(s.ddl); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute %s: %w", s.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	return nil
}
