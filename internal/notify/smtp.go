package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPSender delivers plain-text mail through an SMTP server with PLAIN auth.
type SMTPSender struct {
	from     string
	user     string
	password string
	host     string
	port     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender returns a sender for host:port. user and password may be empty for relays that
// accept unauthenticated mail.
func NewSMTPSender(from, user, password, host, port string) *SMTPSender {
	if port == "" {
		port = "587"
	}
	return &SMTPSender{from: from, user: user, password: password, host: host, port: port, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.host == "" || s.from == "" {
		return errors.New("smtp: missing configuration")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}
	raw := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n%s\r\n",
		s.from, msg.To, msg.Subject, msg.Body,
	))
	return s.sendMail(net.JoinHostPort(s.host, s.port), auth, s.from, []string{msg.To}, raw)
}
