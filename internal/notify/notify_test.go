package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func TestNotifier_Messages(t *testing.T) {
	rec := &recordingSender{}
	n := NewNotifier(rec, "https://app.example.com/invite", zap.NewNop())

	n.Invite("a@example.com", "tok/with+chars")
	n.LoginAlert("b@example.com")
	n.PasswordChanged("c@example.com")
	n.Wait()

	if len(rec.msgs) != 3 {
		t.Fatalf("sent %d messages, want 3", len(rec.msgs))
	}
	bySubject := map[string]Message{}
	for _, m := range rec.msgs {
		bySubject[m.Subject] = m
	}
	inv, ok := bySubject["You're Invited!"]
	if !ok || inv.To != "a@example.com" {
		t.Fatalf("invite message missing or misaddressed: %+v", inv)
	}
	wantLink := "https://app.example.com/invite?token=tok%2Fwith%2Bchars"
	if !strings.HasSuffix(inv.Body, wantLink) {
		t.Errorf("invite body = %q, want link %q", inv.Body, wantLink)
	}
	if m := bySubject["New Login Alert"]; m.Body != "A new login to your account was detected." {
		t.Errorf("login alert body = %q", m.Body)
	}
	if m := bySubject["Password Updated Successfully"]; m.Body != "Your password has been updated successfully." {
		t.Errorf("password body = %q", m.Body)
	}
}

func TestNotifier_FailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &recordingSender{err: errors.New("smtp down")}
	n := NewNotifier(rec, "http://x/invite", zap.New(core))

	n.LoginAlert("a@example.com")
	n.Wait()

	if logs.FilterMessage("notification delivery failed").Len() != 1 {
		t.Errorf("expected one delivery failure log, got %v", logs.All())
	}
}

func TestNotifier_NilSenderIsNoop(t *testing.T) {
	n := NewNotifier(nil, "", nil)
	n.Invite("a@example.com", "t")
	n.Wait()

	var nilNotifier *Notifier
	nilNotifier.LoginAlert("a@example.com")
}
