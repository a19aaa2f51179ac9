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
		// Fallback to v4 if v7 fails
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
	ResultID ID
	RunID    ID
	SiteID   ID
)

// String conversions for domain IDs
func (id ResultID) String() string { return ID(id).String() }
func (id RunID) String() string    { return ID(id).String() }
func (id SiteID) String() string   { return ID(id).String() }

// ParseResultID parses a string into ResultID
func ParseResultID(s string) (ResultID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("result ID cannot be empty")
	}
	return ResultID(s), nil
}

// ParseSiteID parses a string into SiteID
func ParseSiteID(s string) (SiteID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("site ID cannot be empty")
	}
	return SiteID(s), nil
}
