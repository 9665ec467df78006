package sqlite

import (
	"path/filepath"
	"testing"
)

func TestNewSQLiteDB(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "explicit path",
			path: "/tmp/agenda.db",
			want: "/tmp/agenda.db",
		},
		{
			name: "default path",
			want: DefaultPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := NewSQLiteDB(&SQLiteConfig{Path: tt.path})
			if database.Path() != tt.want {
				t.Errorf("Path() = %v, want %v", database.Path(), tt.want)
			}
		})
	}
}

func TestSQLiteDB_Connect(t *testing.T) {
	database := NewSQLiteDB(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	if database.DB() == nil {
		t.Error("DB() returned nil after Connect()")
	}

	if err := database.Connect(); err == nil {
		t.Error("Connect() should return error when already connected")
	}
}

func TestSQLiteDB_Close(t *testing.T) {
	database := NewSQLiteDB(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})

	if err := database.Close(); err != nil {
		t.Errorf("Close() without Connect() error = %v", err)
	}

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if database.DB() != nil {
		t.Error("DB() should return nil after Close()")
	}
}

func TestSQLiteDB_ContactsTableCreated(t *testing.T) {
	database := NewSQLiteDB(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	var count int
	err := database.DB().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", ContactsTable,
	).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check contacts table: %v", err)
	}
	if count != 1 {
		t.Errorf("contacts table not created")
	}

	rows, err := database.DB().Query("SELECT name FROM pragma_table_info(?) ORDER BY cid", ContactsTable)
	if err != nil {
		t.Fatalf("Failed to read table info: %v", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			t.Fatalf("Failed to scan column: %v", err)
		}
		columns = append(columns, col)
	}

	want := []string{"id", "name", "surname", "phone", "email", "image", "address"}
	if len(columns) != len(want) {
		t.Fatalf("columns = %v, want %v", columns, want)
	}
	for i := range want {
		if columns[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, columns[i], want[i])
		}
	}
}

func TestSQLiteDB_ReconnectKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(); err != nil {
		t.Fatalf("First Connect() error = %v", err)
	}
	_, err := database.DB().Exec(
		"INSERT INTO Contacts (name, surname, phone, email, image, address) VALUES (?, ?, ?, ?, ?, ?)",
		"Ana", "Diaz", "555-1111", "", "icons/person.png", "",
	)
	if err != nil {
		t.Fatalf("Failed to insert contact: %v", err)
	}
	database.Close()

	database = NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(); err != nil {
		t.Fatalf("Second Connect() error = %v", err)
	}
	defer database.Close()

	var count int
	if err := database.DB().QueryRow("SELECT COUNT(*) FROM Contacts").Scan(&count); err != nil {
		t.Fatalf("Failed to count contacts: %v", err)
	}
	if count != 1 {
		t.Errorf("contacts = %d, want 1", count)
	}
}
