package store

import (
	"context"
	"fmt"
)

// ContactReader is the part of ContactStore the entity reader needs.
type ContactReader interface {
	Read(ctx context.Context, id int64) (*Contact, error)
	ReadAll(ctx context.Context) ([]Contact, error)
}

// ContactInfoLister is the part of ContactInfoStore the entity reader needs.
type ContactInfoLister interface {
	ReadAll(ctx context.Context) ([]ContactInfo, error)
}

// ContactEntityReader joins contacts with their contact info in memory.
type ContactEntityReader struct {
	contacts ContactReader
	infos    ContactInfoLister
}

// NewContactEntityReader creates a new ContactEntityReader.
func NewContactEntityReader(contacts ContactReader, infos ContactInfoLister) *ContactEntityReader {
	return &ContactEntityReader{contacts: contacts, infos: infos}
}

// Read returns the contact with the given ID and its info rows, or nil if the
// contact does not exist.
func (r *ContactEntityReader) Read(ctx context.Context, id int64) (*ContactEntity, error) {
	contact, err := r.contacts.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read contact entity %d: %w", id, err)
	}
	if contact == nil {
		return nil, nil
	}

	infos, err := r.infos.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read contact entity %d: %w", id, err)
	}

	owned := make([]ContactInfo, 0)
	for _, info := range infos {
		if info.BelongsTo(contact.ID) {
			owned = append(owned, info)
		}
	}
	return &ContactEntity{Contact: *contact, ContactInfo: owned}, nil
}

// ReadAll returns one entity per contact. It scans each table once and groups
// contact info by ContactID before attaching it.
func (r *ContactEntityReader) ReadAll(ctx context.Context) ([]ContactEntity, error) {
	contacts, err := r.contacts.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read all contact entities: %w", err)
	}
	infos, err := r.infos.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read all contact entities: %w", err)
	}

	byContact := make(map[int64][]ContactInfo)
	for _, info := range infos {
		if info.ContactID == nil {
			continue
		}
		byContact[*info.ContactID] = append(byContact[*info.ContactID], info)
	}

	out := make([]ContactEntity, 0, len(contacts))
	for _, c := range contacts {
		owned := byContact[c.ID]
		if owned == nil {
			owned = make([]ContactInfo, 0)
		}
		out = append(out, ContactEntity{Contact: c, ContactInfo: owned})
	}
	return out, nil
}
