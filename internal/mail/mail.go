// Package mail delivers transactional emails such as verification and password reset links.
package mail

import (
	"context"
	"net/url"
	"strings"

	"barefoot/internal/config"

	"github.com/sirupsen/logrus"
)

// Content is the localised text of an email.
type Content struct {
	Subject  string
	Greeting string
	Body     string
	Action   string
}

// Message is a single email addressed to one recipient.
type Message struct {
	To      string
	Name    string
	Content Content
	Link    string
}

// Dispatcher sends messages. Send must honour ctx cancellation.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// NewDispatcher returns an SMTP dispatcher when a host is configured and a
// logging dispatcher otherwise.
func NewDispatcher(cfg config.Config) Dispatcher {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		logrus.Warn("SMTP_HOST not set, emails will only be logged")
		return LogDispatcher{}
	}
	return NewSMTPDispatcher(SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}

// LogDispatcher writes messages to the log instead of delivering them.
type LogDispatcher struct{}

// Send logs the message.
func (LogDispatcher) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Content.Subject,
		"link":    redactLink(msg.Link),
	}).Info("email dispatched to log")
	return nil
}

// redactLink hides the bearer token carried by verification and reset links.
func redactLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	q := u.Query()
	if !q.Has("token") {
		return link
	}
	q.Set("token", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
