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
	AssessmentID ID
	ProfileKey   ID
	ChartKind    ID
)

func (id AssessmentID) String() string { return ID(id).String() }
func (id ProfileKey) String() string   { return ID(id).String() }
func (id ChartKind) String() string    { return ID(id).String() }

// NewAssessmentID returns a fresh time-ordered assessment identifier.
func NewAssessmentID() AssessmentID {
	return AssessmentID(NewID())
}

// ParseProfileKey parses a string into ProfileKey
func ParseProfileKey(s string) (ProfileKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("profile key cannot be empty")
	}
	return ProfileKey(strings.ToLower(s)), nil
}

// ParseChartKind parses a string into ChartKind
func ParseChartKind(s string) (ChartKind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("chart kind cannot be empty")
	}
	return ChartKind(strings.ToLower(s)), nil
}
