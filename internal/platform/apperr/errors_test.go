package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessage_UnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("invite: %w", New(ErrConflict, "already a member"))
	if !errors.Is(err, ErrConflict) {
		t.Error("Message should unwrap to its kind")
	}
	if msg, ok := ClientMessage(err); !ok || msg != "already a member" {
		t.Errorf("ClientMessage = %q, %v", msg, ok)
	}
	if _, ok := ClientMessage(ErrNotFound); ok {
		t.Error("plain sentinel has no client message")
	}
}

func TestValidationError(t *testing.T) {
	var ve *ValidationError
	if ve.OrNil() != nil {
		t.Error("nil ValidationError should collapse to nil")
	}
	ve = NewValidation("to_date", "bad").Add("from_date", "bad")
	err := fmt.Errorf("report: %w", ve.OrNil())
	got, ok := IsValidation(err)
	if !ok || len(got.Fields) != 2 {
		t.Fatalf("IsValidation = %+v, %v", got, ok)
	}
	if err.Error() != "report: validation failed: from_date: bad; to_date: bad" {
		t.Errorf("Error() = %q", err.Error())
	}
}
