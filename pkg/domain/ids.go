// Package domain holds the identifier and value types shared by every bounded
// context. IDs are distinct named types over uuid.UUID so a JobID can never be
// passed where a UserID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "hireme/pkg/domain-errors"
)

type (
	UserID        uuid.UUID
	JobID         uuid.UUID
	ApplicationID uuid.UUID
)

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id JobID) String() string         { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id JobID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id JobID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id ApplicationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *JobID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ApplicationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func NewUserID() UserID               { return UserID(uuid.New()) }
func NewJobID() JobID                 { return JobID(uuid.New()) }
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// ParseUserID parses a user identifier supplied at a trust boundary.
// Empty strings, malformed input and the nil UUID are rejected with CodeInvalidInput.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	return UserID(u), err
}

func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job")
	return JobID(u), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application")
	return ApplicationID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	return u, nil
}
