package repository

import (
	"testing"

	"tenant-accounts/backend/internal/report/domain"
)

func TestFilterArgs_Status(t *testing.T) {
	f, err := domain.ParseFilter("", "", "2147483647")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	_, _, status := filterArgs(f)
	if !status.Valid || status.Int32 != 2147483647 {
		t.Errorf("status arg = %+v, want 2147483647", status)
	}

	if _, err := domain.ParseFilter("", "", "4294967296"); err == nil {
		t.Fatal("status outside int4 should be rejected before reaching SQL")
	}

	_, _, status = filterArgs(domain.Filter{})
	if status.Valid {
		t.Error("unset status should bind as NULL")
	}
}
