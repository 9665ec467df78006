package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dfryer1193/agenda/contacts/domain"
	"github.com/dfryer1193/agenda/shared/db"
)

var _ domain.ContactRepository = (*SQLiteContactRepository)(nil)

// SQLiteContactRepository implements domain.ContactRepository using SQL database (SQLite)
type SQLiteContactRepository struct {
	db            *sql.DB
	defaultAvatar string
}

// NewContactRepository creates a repository over sqlDB. Contacts persisted without an
// image reference are given defaultAvatar; an empty defaultAvatar means domain.DefaultAvatar.
func NewContactRepository(sqlDB *sql.DB, defaultAvatar string) *SQLiteContactRepository {
	if defaultAvatar == "" {
		defaultAvatar = domain.DefaultAvatar
	}

	return &SQLiteContactRepository{
		db:            sqlDB,
		defaultAvatar: defaultAvatar,
	}
}

const insertContactQuery = `
	INSERT INTO Contacts (name, surname, phone, email, image, address)
	VALUES (?, ?, ?, ?, ?, ?)
`

// Create validates f and inserts it, returning the new ID.
func (r *SQLiteContactRepository) Create(ctx context.Context, f domain.Fields) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	f = r.withDefaultImage(f)

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, insertContactQuery,
		f.Name,
		f.Surname,
		f.Phone,
		f.Email,
		f.ImageRef,
		f.Address,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read contact id: %w", err)
	}

	return id, nil
}

const getContactQuery = `
	SELECT id, name, surname, phone, email, image, address
	FROM Contacts
	WHERE id = ?
`

// Get retrieves a single contact by ID
func (r *SQLiteContactRepository) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	return r.scanOne(ctx, id, getContactQuery, id)
}

const firstContactQuery = `
	SELECT id, name, surname, phone, email, image, address
	FROM Contacts
	ORDER BY id ASC
	LIMIT 1
`

// First retrieves the contact with the lowest ID.
func (r *SQLiteContactRepository) First(ctx context.Context) (*domain.Contact, error) {
	return r.scanOne(ctx, 0, firstContactQuery)
}

const listSummariesQuery = `
	SELECT id, name, surname
	FROM Contacts
	ORDER BY id ASC
`

// ListSummaries retrieves id, name and surname of every contact in insertion order.
func (r *SQLiteContactRepository) ListSummaries(ctx context.Context) ([]domain.Summary, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, listSummariesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.Summary, 0)
	for rows.Next() {
		var row summaryRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Surname); err != nil {
			return nil, fmt.Errorf("failed to scan contact summary: %w", err)
		}
		summaries = append(summaries, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}

	return summaries, nil
}

const updateContactQuery = `
	UPDATE Contacts
	SET name = ?, surname = ?, phone = ?, email = ?, image = ?, address = ?
	WHERE id = ?
`

// Update replaces every field of the contact at id within a transaction and returns
// the record as it was before the write.
func (r *SQLiteContactRepository) Update(ctx context.Context, id int64, f domain.Fields) (*domain.Contact, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = r.withDefaultImage(f)

	var previous *domain.Contact
	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		var err error
		previous, err = r.Get(txCtx, id)
		if err != nil {
			return err
		}

		executor := db.GetExecutor(txCtx, r.db)
		_, err = executor.ExecContext(txCtx, updateContactQuery,
			f.Name,
			f.Surname,
			f.Phone,
			f.Email,
			f.ImageRef,
			f.Address,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

const deleteContactQuery = `
	DELETE FROM Contacts WHERE id = ?
`

// Delete removes the contact at id within a transaction and returns the removed record,
// so the caller knows which image it owned.
func (r *SQLiteContactRepository) Delete(ctx context.Context, id int64) (*domain.Contact, error) {
	var removed *domain.Contact
	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		var err error
		removed, err = r.Get(txCtx, id)
		if err != nil {
			return err
		}

		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, deleteContactQuery, id); err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

const imageRefsQuery = `
	SELECT DISTINCT image FROM Contacts WHERE image IS NOT NULL
`

// ImageRefs returns every distinct image reference held by a contact.
func (r *SQLiteContactRepository) ImageRefs(ctx context.Context) ([]string, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, imageRefsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list image references: %w", err)
	}
	defer rows.Close()

	refs := make([]string, 0)
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan image reference: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image references: %w", err)
	}

	return refs, nil
}

func (r *SQLiteContactRepository) scanOne(ctx context.Context, id int64, query string, args ...any) (*domain.Contact, error) {
	var row contactRow
	executor := db.GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&row.ID,
		&row.Name,
		&row.Surname,
		&row.Phone,
		&row.Email,
		&row.Image,
		&row.Address,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return row.toDomain(r.defaultAvatar), nil
}

func (r *SQLiteContactRepository) withDefaultImage(f domain.Fields) domain.Fields {
	if f.ImageRef == "" {
		f.ImageRef = r.defaultAvatar
	}
	return f
}

// contactRow is a private struct used to scan database rows.
// Columns are nullable because the table declares no constraints.
type contactRow struct {
	ID      int64          `db:"id"`
	Name    sql.NullString `db:"name"`
	Surname sql.NullString `db:"surname"`
	Phone   sql.NullString `db:"phone"`
	Email   sql.NullString `db:"email"`
	Image   sql.NullString `db:"image"`
	Address sql.NullString `db:"address"`
}

// toDomain converts a contactRow to a domain.Contact, defaulting a missing image.
func (cr *contactRow) toDomain(defaultAvatar string) *domain.Contact {
	c := &domain.Contact{
		ID: cr.ID,
		Fields: domain.Fields{
			Name:     cr.Name.String,
			Surname:  cr.Surname.String,
			Phone:    cr.Phone.String,
			Email:    cr.Email.String,
			Address:  cr.Address.String,
			ImageRef: cr.Image.String,
		},
	}

	if c.ImageRef == "" {
		c.ImageRef = defaultAvatar
	}

	return c
}

type summaryRow struct {
	ID      int64          `db:"id"`
	Name    sql.NullString `db:"name"`
	Surname sql.NullString `db:"surname"`
}

func (sr *summaryRow) toDomain() domain.Summary {
	return domain.Summary{
		ID:      sr.ID,
		Name:    sr.Name.String,
		Surname: sr.Surname.String,
	}
}
