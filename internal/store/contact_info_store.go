package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	procCreateContactInfo  = "CreateContactInfo"
	procReadContactInfo    = "ReadContactInfo"
	procReadAllContactInfo = "ReadAllContactInfo"
	procUpdateContactInfo  = "UpdateContactInfo"
	procDeleteContactInfo  = "DeleteContactInfo"

	infoSize = 50
)

// ContactInfoStore wraps the ContactInfo stored procedures.
type ContactInfoStore struct {
	db *sql.DB
}

// NewContactInfoStore creates a new ContactInfoStore.
func NewContactInfoStore(db *sql.DB) *ContactInfoStore {
	return &ContactInfoStore{db: db}
}

// Create inserts info and returns it with the ID the database assigned.
// It returns nil without an error when the Info value is already taken.
// A ContactID that references no contact fails with the database error.
func (s *ContactInfoStore) Create(ctx context.Context, info ContactInfo) (*ContactInfo, error) {
	id := ParamOutput("ID", Int)
	proc := call(procCreateContactInfo,
		ParamNVarChar("Info", info.Info, infoSize),
		ParamNullInt("ContactID", info.ContactID),
		id,
	)
	if err := proc.validate(); err != nil {
		return nil, fmt.Errorf("create contact info: %w", err)
	}

	return withConn(ctx, s.db, func(exec sqlExecutor) (*ContactInfo, error) {
		_, err := proc.exec(ctx, exec)
		if err != nil {
			if IsDuplicateKey(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("create contact info: %w", err)
		}

		newID, ok, err := id.Int64()
		if err != nil {
			return nil, fmt.Errorf("create contact info: %w", err)
		}
		if !ok {
			return nil, nil
		}
		created := info.WithID(newID)
		return &created, nil
	})
}

// Read returns the contact info with the given ID, or nil if there is none.
func (s *ContactInfoStore) Read(ctx context.Context, id int64) (*ContactInfo, error) {
	return withConn(ctx, s.db, func(exec sqlExecutor) (*ContactInfo, error) {
		records, err := call(procReadContactInfo, ParamInt("Id", id)).query(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("read contact info %d: %w", id, err)
		}
		if len(records) == 0 {
			return nil, nil
		}
		info, err := contactInfoFromRecord(records[0])
		if err != nil {
			return nil, fmt.Errorf("read contact info %d: %w", id, err)
		}
		return &info, nil
	})
}

// ReadAll returns every contact info in the order the procedure yields them.
func (s *ContactInfoStore) ReadAll(ctx context.Context) ([]ContactInfo, error) {
	return withConn(ctx, s.db, func(exec sqlExecutor) ([]ContactInfo, error) {
		records, err := call(procReadAllContactInfo).query(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("read all contact info: %w", err)
		}
		out := make([]ContactInfo, 0, len(records))
		for _, r := range records {
			info, err := contactInfoFromRecord(r)
			if err != nil {
				return nil, fmt.Errorf("read all contact info: %w", err)
			}
			out = append(out, info)
		}
		return out, nil
	})
}

// Update overwrites Info and ContactID of the row with info.ID.
func (s *ContactInfoStore) Update(ctx context.Context, info ContactInfo) (bool, error) {
	proc := call(procUpdateContactInfo,
		ParamInt("Id", info.ID),
		ParamNVarChar("Info", info.Info, infoSize),
		ParamNullInt("ContactID", info.ContactID),
	)
	if err := proc.validate(); err != nil {
		return false, fmt.Errorf("update contact info %d: %w", info.ID, err)
	}

	return withConn(ctx, s.db, func(exec sqlExecutor) (bool, error) {
		n, err := proc.exec(ctx, exec)
		if err != nil {
			return false, fmt.Errorf("update contact info %d: %w", info.ID, err)
		}
		return n > 0, nil
	})
}

// Delete removes the contact info with the given ID.
func (s *ContactInfoStore) Delete(ctx context.Context, id int64) (bool, error) {
	return withConn(ctx, s.db, func(exec sqlExecutor) (bool, error) {
		n, err := call(procDeleteContactInfo, ParamInt("Id", id)).exec(ctx, exec)
		if err != nil {
			return false, fmt.Errorf("delete contact info %d: %w", id, err)
		}
		return n > 0, nil
	})
}

func contactInfoFromRecord(r Record) (ContactInfo, error) {
	var (
		info ContactInfo
		err  error
	)
	if info.ID, err = r.Int64("ID"); err != nil {
		return ContactInfo{}, err
	}
	if info.Info, err = r.String("Info"); err != nil {
		return ContactInfo{}, err
	}
	if info.ContactID, err = r.NullInt64("ContactID"); err != nil {
		return ContactInfo{}, err
	}
	return info, nil
}
