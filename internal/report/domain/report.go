// Package domain defines the reporting filter and the aggregate rows computed over memberships.
package domain

import (
	"strconv"
	"strings"
	"time"

	"tenant-accounts/backend/internal/platform/apperr"
)

const dateLayout = "2006-01-02"

// Filter restricts which memberships are counted. Nil fields do not filter.
// From and To are inclusive bounds on the membership's created_at.
type Filter struct {
	From   *time.Time
	To     *time.Time
	Status *int
}

// RoleCount is one row of the role-wise report.
type RoleCount struct {
	RoleName string `json:"role_name"`
	Count    int64  `json:"count"`
}

// OrgCount is one row of the organization-wise report.
type OrgCount struct {
	OrgName string `json:"org_name"`
	Count   int64  `json:"count"`
}

// OrgRoleCount is one row of the organization-and-role report.
type OrgRoleCount struct {
	OrgName  string `json:"org_name"`
	RoleName string `json:"role_name"`
	Count    int64  `json:"count"`
}

// ParseFilter builds a Filter from raw query parameters. Empty values leave the field unset.
// Dates are YYYY-MM-DD (UTC) or RFC 3339; a date-only toDate covers the whole day.
func ParseFilter(fromDate, toDate, status string) (Filter, error) {
	var f Filter
	verr := &apperr.ValidationError{}

	if s := strings.TrimSpace(fromDate); s != "" {
		t, _, err := parseTime(s)
		if err != nil {
			verr.Add("from_date", "must be YYYY-MM-DD or RFC 3339")
		} else {
			f.From = &t
		}
	}
	if s := strings.TrimSpace(toDate); s != "" {
		t, dateOnly, err := parseTime(s)
		if err != nil {
			verr.Add("to_date", "must be YYYY-MM-DD or RFC 3339")
		} else {
			if dateOnly {
				// Last representable instant of the day at microsecond precision.
				t = t.Add(24*time.Hour - time.Microsecond)
			}
			f.To = &t
		}
	}
	if s := strings.TrimSpace(status); s != "" {
		// Status columns are int4; out-of-range values are rejected rather than narrowed.
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			verr.Add("status", "must be a 32-bit integer")
		} else {
			v := int(n)
			f.Status = &v
		}
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		verr.Add("to_date", "must not be before from_date")
	}
	if err := verr.OrNil(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Matches reports whether a membership with the given created_at and status passes the filter.
func (f Filter) Matches(createdAt time.Time, status int) bool {
	if f.From != nil && createdAt.Before(*f.From) {
		return false
	}
	if f.To != nil && createdAt.After(*f.To) {
		return false
	}
	if f.Status != nil && status != *f.Status {
		return false
	}
	return true
}

func parseTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}
