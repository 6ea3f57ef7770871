package domain

import (
	"testing"
	"time"

	"tenant-accounts/backend/internal/platform/apperr"
)

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter("", " ", "")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.From != nil || f.To != nil || f.Status != nil {
		t.Errorf("empty params should not filter, got %+v", f)
	}
}

func TestParseFilter_DateOnlyBounds(t *testing.T) {
	f, err := ParseFilter("2024-03-01", "2024-03-31", "1")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	wantFrom := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !f.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", f.From, wantFrom)
	}
	wantTo := time.Date(2024, 3, 31, 23, 59, 59, 999999000, time.UTC)
	if !f.To.Equal(wantTo) {
		t.Errorf("To = %v, want %v", f.To, wantTo)
	}
	if f.Status == nil || *f.Status != 1 {
		t.Errorf("Status = %v, want 1", f.Status)
	}
}

func TestParseFilter_RFC3339IsExact(t *testing.T) {
	f, err := ParseFilter("", "2024-03-31T12:00:00Z", "")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	want := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	if !f.To.Equal(want) {
		t.Errorf("To = %v, want %v", f.To, want)
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		from   string
		to     string
		status string
		fields []string
	}{
		{"bad from", "yesterday", "", "", []string{"from_date"}},
		{"bad to", "", "31/03/2024", "", []string{"to_date"}},
		{"bad status", "", "", "active", []string{"status"}},
		{"status above int4", "", "", "4294967296", []string{"status"}},
		{"status below int4", "", "", "-2147483649", []string{"status"}},
		{"all bad", "x", "y", "z", []string{"from_date", "to_date", "status"}},
		{"inverted range", "2024-04-01", "2024-03-01", "", []string{"to_date"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFilter(tc.from, tc.to, tc.status)
			ve, ok := apperr.IsValidation(err)
			if !ok {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if len(ve.Fields) != len(tc.fields) {
				t.Errorf("fields = %v, want %v", ve.Fields, tc.fields)
			}
			for _, field := range tc.fields {
				if _, ok := ve.Fields[field]; !ok {
					t.Errorf("missing field %q in %v", field, ve.Fields)
				}
			}
		})
	}
}

func TestParseFilter_StatusInt4Bounds(t *testing.T) {
	for _, raw := range []string{"2147483647", "-2147483648"} {
		f, err := ParseFilter("", "", raw)
		if err != nil {
			t.Fatalf("ParseFilter(%s): %v", raw, err)
		}
		if f.Status == nil {
			t.Fatalf("ParseFilter(%s) left status unset", raw)
		}
	}
}

func TestFilter_MatchesInclusiveEdges(t *testing.T) {
	f, err := ParseFilter("2024-01-10", "2024-01-20", "")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	testCases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"just before from", time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC), false},
		{"exactly from", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), true},
		{"last second of to", time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC), true},
		{"day after to", time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Matches(tc.at, 0); got != tc.want {
				t.Errorf("Matches(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestFilter_MatchesStatus(t *testing.T) {
	s := 0
	f := Filter{Status: &s}
	now := time.Now()
	if !f.Matches(now, 0) {
		t.Error("status 0 should match")
	}
	if f.Matches(now, 1) {
		t.Error("status 1 should not match")
	}
}
