package domain

import (
	"errors"
	"strings"
)

// Role is a named label scoped to exactly one organization. Two organizations may each own a
// role with the same name; they are distinct rows.
type Role struct {
	ID          string
	Name        string
	Description *string
	OrgID       string
}

// RoleOwner is created implicitly for the creator of an organization.
const RoleOwner = "Owner"

// ErrDuplicateRole is returned when an organization already has a role with the same name.
var ErrDuplicateRole = errors.New("role: name already exists in organization")

// Validate validates the role for persistence. Returns an error describing the first validation failure.
func (r *Role) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.OrgID == "" {
		return errors.New("org_id is required")
	}
	return nil
}
