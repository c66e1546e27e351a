package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SessionID   ID
	SampleID    ID
	CandidateID ID
	FeedbackID  ID
)

// String conversions for domain IDs
func (id SessionID) String() string   { return ID(id).String() }
func (id SampleID) String() string    { return ID(id).String() }
func (id CandidateID) String() string { return ID(id).String() }
func (id FeedbackID) String() string  { return ID(id).String() }

// NewSessionID creates a fresh viewer session identifier
func NewSessionID() SessionID { return SessionID(NewID()) }

// ParseSessionID validates a session cookie value. Only UUIDs are accepted.
func ParseSessionID(s string) (SessionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid session ID: %w", err)
	}
	return SessionID(s), nil
}

// ParseSampleID parses a string into SampleID
func ParseSampleID(s string) (SampleID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("sample ID cannot be empty")
	}
	return SampleID(strings.TrimSpace(s)), nil
}
