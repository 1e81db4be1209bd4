package store

import (
	"fmt"
	"strings"
)

// UnpersistedID marks a record that has not been stored yet.
const UnpersistedID int64 = -1

// Contact mirrors a row of the Contact table.
type Contact struct {
	ID        int64  `json:"id"`
	SSN       string `json:"ssn"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewContact returns an unpersisted contact.
func NewContact(ssn, firstName, lastName string) Contact {
	return Contact{ID: UnpersistedID, SSN: ssn, FirstName: firstName, LastName: lastName}
}

// WithID returns a copy of c with the given ID.
func (c Contact) WithID(id int64) Contact {
	c.ID = id
	return c
}

// WithSSN returns a copy of c with the given SSN.
func (c Contact) WithSSN(ssn string) Contact {
	c.SSN = ssn
	return c
}

// WithFirstName returns a copy of c with the given first name.
func (c Contact) WithFirstName(firstName string) Contact {
	c.FirstName = firstName
	return c
}

// WithLastName returns a copy of c with the given last name.
func (c Contact) WithLastName(lastName string) Contact {
	c.LastName = lastName
	return c
}

func (c Contact) String() string {
	return fmt.Sprintf("Contact { ID = %d, SSN = %s, FirstName = %s, LastName = %s }",
		c.ID, c.SSN, c.FirstName, c.LastName)
}

// ContactInfo mirrors a row of the ContactInfo table.
// ContactID is nil when the info is not associated with any contact.
type ContactInfo struct {
	ID        int64  `json:"id"`
	Info      string `json:"info"`
	ContactID *int64 `json:"contact_id,omitempty"`
}

// NewContactInfo returns an unpersisted contact info.
func NewContactInfo(info string, contactID *int64) ContactInfo {
	return ContactInfo{ID: UnpersistedID, Info: info, ContactID: copyID(contactID)}
}

// WithID returns a copy of ci with the given ID.
func (ci ContactInfo) WithID(id int64) ContactInfo {
	ci.ID = id
	return ci
}

// WithInfo returns a copy of ci with the given info text.
func (ci ContactInfo) WithInfo(info string) ContactInfo {
	ci.Info = info
	return ci
}

// WithContactID returns a copy of ci referencing contactID, nil to unlink it.
func (ci ContactInfo) WithContactID(contactID *int64) ContactInfo {
	ci.ContactID = copyID(contactID)
	return ci
}

// BelongsTo reports whether the info references the given contact.
func (ci ContactInfo) BelongsTo(contactID int64) bool {
	return ci.ContactID != nil && *ci.ContactID == contactID
}

func (ci ContactInfo) String() string {
	contactID := ""
	if ci.ContactID != nil {
		contactID = fmt.Sprint(*ci.ContactID)
	}
	return fmt.Sprintf("ContactInfo { ID = %d, Info = %s, ContactID = %s }", ci.ID, ci.Info, contactID)
}

// ContactEntity is a contact together with the info rows referencing it.
// It is only ever assembled from reads.
type ContactEntity struct {
	Contact     Contact       `json:"contact"`
	ContactInfo []ContactInfo `json:"contact_info"`
}

func (e ContactEntity) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ContactEntity { ID = %d, SSN = %s, FirstName = %s, LastName = %s, ContactInfo [",
		e.Contact.ID, e.Contact.SSN, e.Contact.FirstName, e.Contact.LastName)
	for i, info := range e.ContactInfo {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "{ID = %d, Info = %s}", info.ID, info.Info)
	}
	sb.WriteString("] }")
	return sb.String()
}

// ID returns a pointer to a copy of id, handy for optional foreign keys.
func ID(id int64) *int64 {
	return &id
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	return ID(*id)
}
