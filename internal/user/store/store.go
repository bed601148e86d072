// Package store owns user persistence. Callers only ever see the
// IdentifiedUser projection; the versioned Record representation never
// leaves this package.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"userd/internal/user/models"
)

// ErrNotFound reports expected absence: the identifier is well-formed but no
// record exists for it. It is a fact about the store, not a failure.
var ErrNotFound = errors.New("user not found")

// SchemaError reports a stored record that no longer satisfies the current
// domain rules, e.g. after validation was tightened under existing data.
// It signals a latent consistency bug and must be logged loudly by callers.
type SchemaError struct {
	UserID uuid.UUID
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("stored user %s fails current validation: %v", e.UserID, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// StorageError reports an infrastructure failure (connectivity, constraint
// violation, bad query). Retriable at the HTTP level, never retried here.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store is the persistence contract for users. Both implementations behave
// identically from the caller's perspective; only durability and failure
// modes differ.
type Store interface {
	// Put assigns identity to the user, persists a fresh record, and
	// returns the identified view. Every Put is an insert; records are
	// never mutated in place.
	Put(ctx context.Context, user models.User) (models.IdentifiedUser, error)

	// Get loads the latest record for the identifier and projects it back
	// to the identified view, re-validating against current domain rules.
	// Returns ErrNotFound when no record exists.
	Get(ctx context.Context, id uuid.UUID) (models.IdentifiedUser, error)
}

// options are the injected capabilities shared by every Store variant.
// Identity and version generation are explicit dependencies so tests can pin
// them; production code uses the defaults.
type options struct {
	newID      func() uuid.UUID
	newVersion func() string
	clock      func() time.Time
}

// Option configures a Store variant.
type Option func(*options)

// WithIDGenerator sets the user identifier source.
func WithIDGenerator(g func() uuid.UUID) Option {
	return func(o *options) {
		if g != nil {
			o.newID = g
		}
	}
}

// WithVersionGenerator sets the version token source.
func WithVersionGenerator(g func() string) Option {
	return func(o *options) {
		if g != nil {
			o.newVersion = g
		}
	}
}

// WithClock sets the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func defaultOptions() options {
	return options{
		newID:      uuid.New,
		newVersion: NewVersion,
		clock:      time.Now,
	}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
}
