package domain

import (
	"errors"
	"time"

	"tenant-accounts/backend/internal/platform/jsonbag"
)

// Membership is the grant of a role to a user within an organization.
// (OrgID, UserID, RoleID) is unique; a user may hold several roles in one organization.
type Membership struct {
	ID        string
	OrgID     string
	UserID    string
	RoleID    string
	Status    int
	Settings  jsonbag.Bag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusPending is the status of memberships created by invite and at organization creation.
// Its meaning beyond that is left to callers.
const StatusPending = 0

// ErrDuplicateMembership is returned when the (org, user, role) grant already exists.
var ErrDuplicateMembership = errors.New("membership: grant already exists")

// Validate validates the membership for persistence. Returns an error describing the first validation failure.
func (m *Membership) Validate() error {
	switch {
	case m.OrgID == "":
		return errors.New("org_id is required")
	case m.UserID == "":
		return errors.New("user_id is required")
	case m.RoleID == "":
		return errors.New("role_id is required")
	}
	if m.Settings == nil {
		m.Settings = jsonbag.Bag{}
	}
	return nil
}
