package domain

import (
	"errors"
	"time"

	"tenant-accounts/backend/internal/platform/jsonbag"
)

// Org represents an organization/tenant. Name is fixed at creation; status and settings change.
type Org struct {
	ID        string
	Name      string
	Status    int
	Personal  *bool
	Settings  jsonbag.Bag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the organization for persistence. Returns an error describing the first validation failure.
func (o *Org) Validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	if o.Personal == nil {
		personal := false
		o.Personal = &personal
	}
	if o.Settings == nil {
		o.Settings = jsonbag.Bag{}
	}
	return nil
}
