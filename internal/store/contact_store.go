package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	procCreateContact   = "CreateContact"
	procReadContact     = "ReadContact"
	procReadAllContacts = "ReadAllContacts"
	procUpdateContact   = "UpdateContact"
	procDeleteContact   = "DeleteContact"

	ssnSize  = 13
	nameSize = 50
)

// ContactStore wraps the Contact stored procedures.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

// Create inserts c and returns it with the ID the database assigned.
// It returns nil without an error when the SSN is already taken.
func (s *ContactStore) Create(ctx context.Context, c Contact) (*Contact, error) {
	id := ParamOutput("ID", Int)
	proc := call(procCreateContact,
		ParamVarChar("SSN", c.SSN, ssnSize),
		ParamNVarChar("FirstName", c.FirstName, nameSize),
		ParamNVarChar("LastName", c.LastName, nameSize),
		id,
	)
	if err := proc.validate(); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return withConn(ctx, s.db, func(exec sqlExecutor) (*Contact, error) {
		_, err := proc.exec(ctx, exec)
		if err != nil {
			if IsDuplicateKey(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("create contact: %w", err)
		}

		newID, ok, err := id.Int64()
		if err != nil {
			return nil, fmt.Errorf("create contact: %w", err)
		}
		if !ok {
			return nil, nil
		}
		created := c.WithID(newID)
		return &created, nil
	})
}

// Read returns the contact with the given ID, or nil if there is none.
func (s *ContactStore) Read(ctx context.Context, id int64) (*Contact, error) {
	return withConn(ctx, s.db, func(exec sqlExecutor) (*Contact, error) {
		records, err := call(procReadContact, ParamInt("Id", id)).query(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("read contact %d: %w", id, err)
		}
		if len(records) == 0 {
			return nil, nil
		}
		c, err := contactFromRecord(records[0])
		if err != nil {
			return nil, fmt.Errorf("read contact %d: %w", id, err)
		}
		return &c, nil
	})
}

// ReadAll returns every contact in the order the procedure yields them.
func (s *ContactStore) ReadAll(ctx context.Context) ([]Contact, error) {
	return withConn(ctx, s.db, func(exec sqlExecutor) ([]Contact, error) {
		records, err := call(procReadAllContacts).query(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("read all contacts: %w", err)
		}
		out := make([]Contact, 0, len(records))
		for _, r := range records {
			c, err := contactFromRecord(r)
			if err != nil {
				return nil, fmt.Errorf("read all contacts: %w", err)
			}
			out = append(out, c)
		}
		return out, nil
	})
}

// Update overwrites SSN, FirstName and LastName of the contact with c.ID.
// It reports false when no such contact exists.
func (s *ContactStore) Update(ctx context.Context, c Contact) (bool, error) {
	proc := call(procUpdateContact,
		ParamInt("Id", c.ID),
		ParamVarChar("SSN", c.SSN, ssnSize),
		ParamNVarChar("FirstName", c.FirstName, nameSize),
		ParamNVarChar("LastName", c.LastName, nameSize),
	)
	if err := proc.validate(); err != nil {
		return false, fmt.Errorf("update contact %d: %w", c.ID, err)
	}

	return withConn(ctx, s.db, func(exec sqlExecutor) (bool, error) {
		n, err := proc.exec(ctx, exec)
		if err != nil {
			return false, fmt.Errorf("update contact %d: %w", c.ID, err)
		}
		return n > 0, nil
	})
}

// Delete removes the contact with the given ID and reports whether a row went away.
func (s *ContactStore) Delete(ctx context.Context, id int64) (bool, error) {
	return withConn(ctx, s.db, func(exec sqlExecutor) (bool, error) {
		n, err := call(procDeleteContact, ParamInt("Id", id)).exec(ctx, exec)
		if err != nil {
			return false, fmt.Errorf("delete contact %d: %w", id, err)
		}
		return n > 0, nil
	})
}

func contactFromRecord(r Record) (Contact, error) {
	var (
		c   Contact
		err error
	)
	if c.ID, err = r.Int64("Id"); err != nil {
		return Contact{}, err
	}
	if c.SSN, err = r.String("SSN"); err != nil {
		return Contact{}, err
	}
	if c.FirstName, err = r.String("FirstName"); err != nil {
		return Contact{}, err
	}
	if c.LastName, err = r.String("LastName"); err != nil {
		return Contact{}, err
	}
	return c, nil
}
