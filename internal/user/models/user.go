package models

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// MaxFieldLength bounds name and email. Matches the column width of the
// backing store.
const MaxFieldLength = 255

// User is unidentified client input: the shape of a user before identity has
// been assigned. It is never persisted directly; the store converts it into
// an identified record first.
//
// Invariants (enforced by ValidateUser):
//   - Name is non-empty and at most 255 characters
//   - Email is syntactically valid and at most 255 characters
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IdentifiedUser is the externally visible representation: a User plus its
// assigned identifier. Identity is assigned exactly once, at creation, and is
// immutable thereafter.
type IdentifiedUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Identify assigns the given identifier to a user. Callers own identifier
// generation; the domain layer never reaches for ambient randomness.
func Identify(u User, id uuid.UUID) IdentifiedUser {
	return IdentifiedUser{ID: id, Name: u.Name, Email: u.Email}
}

// User returns the unidentified projection.
func (u IdentifiedUser) User() User {
	return User{Name: u.Name, Email: u.Email}
}

// FieldError describes a single validation failure, carrying the offending
// field path and a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationErrors accumulates every failure for a value. Validation never
// short-circuits, so a client sees all problems with their input at once.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, ", ")
}

// ValidateUser checks unidentified input against the domain rules. A nil
// return means the user is valid.
func ValidateUser(u User) ValidationErrors {
	var errs ValidationErrors
	if u.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Name is required"})
	} else if len(u.Name) > MaxFieldLength {
		errs = append(errs, FieldError{Field: "name", Message: "Name must be 255 characters or fewer"})
	}
	if !validEmail(u.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email format"})
	} else if len(u.Email) > MaxFieldLength {
		errs = append(errs, FieldError{Field: "email", Message: "Email must be 255 characters or fewer"})
	}
	return errs
}

// ValidateIdentifiedUser runs every User-level check and additionally
// requires a non-nil identifier. Errors accumulate across fields.
func ValidateIdentifiedUser(u IdentifiedUser) ValidationErrors {
	var errs ValidationErrors
	if u.ID == uuid.Nil {
		errs = append(errs, FieldError{Field: "id", Message: "Invalid UUID format"})
	}
	return append(errs, ValidateUser(u.User())...)
}

// validEmail accepts bare addresses only. mail.ParseAddress also accepts the
// display-name form ("Jane <jane@example.com>"), which is not a valid value
// for the email field, so the parsed address must round-trip to the input.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
