// Package notify delivers account notifications (invites, login alerts, password changes).
// Delivery is best-effort: the Notifier dispatches in the background and only logs failures.
package notify

import (
	"context"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// sendTimeout bounds a single background delivery.
const sendTimeout = 10 * time.Second

// Message is one outgoing notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message over some transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier builds the account notifications and hands them to a Sender without blocking the caller.
type Notifier struct {
	sender        Sender
	log           *zap.Logger
	inviteBaseURL string
	timeout       time.Duration
	wg            sync.WaitGroup
}

// NewNotifier returns a Notifier. inviteBaseURL is the page that accepts ?token=<invite reference>.
func NewNotifier(sender Sender, inviteBaseURL string, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{sender: sender, log: log, inviteBaseURL: inviteBaseURL, timeout: sendTimeout}
}

// InviteLink returns the link mailed to an invited user.
func (n *Notifier) InviteLink(token string) string {
	return n.inviteBaseURL + "?token=" + url.QueryEscape(token)
}

// Invite tells email it has been added to an organization.
func (n *Notifier) Invite(email, token string) {
	n.dispatch(Message{
		To:      email,
		Subject: "You're Invited!",
		Body:    "Click the following link to join the organization: " + n.InviteLink(token),
	})
}

// LoginAlert tells email a sign-in happened.
func (n *Notifier) LoginAlert(email string) {
	n.dispatch(Message{
		To:      email,
		Subject: "New Login Alert",
		Body:    "A new login to your account was detected.",
	})
}

// PasswordChanged tells email its password was reset.
func (n *Notifier) PasswordChanged(email string) {
	n.dispatch(Message{
		To:      email,
		Subject: "Password Updated Successfully",
		Body:    "Your password has been updated successfully.",
	})
}

// Wait blocks until in-flight deliveries finish. Called on shutdown and by tests.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// dispatch sends msg in a goroutine on a fresh context so request cancellation does not abort delivery.
func (n *Notifier) dispatch(msg Message) {
	if n == nil || n.sender == nil {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			n.log.Warn("notification delivery failed",
				zap.String("subject", msg.Subject),
				zap.String("to", msg.To),
				zap.Error(err))
		}
	}()
}
