package domain

import "time"

// EventType names a membership change.
type EventType string

const (
	EventMemberInvited          EventType = "member_invited"
	EventMemberRemoved          EventType = "member_removed"
	EventMemberRoleUpdated      EventType = "member_role_updated"
	EventOwnerMembershipCreated EventType = "owner_membership_created"
)

// Event is one membership change, published to Kafka as JSON and mirrored to OTel logs.
// Count is the number of membership rows the change touched.
type Event struct {
	Type      EventType `json:"event_type"`
	OrgID     string    `json:"org_id"`
	UserID    string    `json:"user_id,omitempty"`
	RoleID    string    `json:"role_id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Count     int64     `json:"count"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
