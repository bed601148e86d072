package store

import (
	"time"

	"github.com/google/uuid"

	"userd/internal/user/models"
)

// Record is the internal persistence representation of a user. Writes are
// append-only: a fresh Record with a fresh version token is produced per
// write, and for a given UserID at most one Record has Latest=true.
//
// No code path writes a second version or flips Latest yet; the schema
// anticipates versioning so that a future update path can append rather
// than mutate.
type Record struct {
	UserID    uuid.UUID
	Version   string
	Name      string
	Email     string
	Latest    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewVersion mints a version token: time-ordered, so the string form of a
// later write sorts lexicographically after an earlier one.
func NewVersion() string {
	v, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does, which is the
		// same condition under which uuid.New panics.
		panic(err)
	}
	return v.String()
}

// newRecord maps an identified user to a fresh storage record: existing
// identifier, fresh version, Latest set, both timestamps stamped to now.
func newRecord(u models.IdentifiedUser, version string, now time.Time) Record {
	return Record{
		UserID:    u.ID,
		Version:   version,
		Name:      u.Name,
		Email:     u.Email,
		Latest:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// User projects the record back to the identified-user shape and re-validates
// it. Storage is not trusted to remain consistent with current domain rules:
// data written under looser rules fails here with a SchemaError instead of
// leaking out as an invalid domain value.
func (r Record) User() (models.IdentifiedUser, error) {
	u := models.IdentifiedUser{ID: r.UserID, Name: r.Name, Email: r.Email}
	if errs := models.ValidateIdentifiedUser(u); errs != nil {
		return models.IdentifiedUser{}, &SchemaError{UserID: r.UserID, Err: errs}
	}
	return u, nil
}
