package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"strconv"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// defaultSendTimeout bounds a delivery whose context carries no deadline.
const defaultSendTimeout = 15 * time.Second

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPDispatcher renders messages to HTML and delivers them with go-mail.
type SMTPDispatcher struct {
	cfg  SMTPConfig
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewSMTPDispatcher creates a dispatcher for cfg.
func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	dialer := &net.Dialer{}
	return &SMTPDispatcher{cfg: cfg, dial: dialer.DialContext}
}

var bodyTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>{{.Content.Greeting}}</p>
  <p>{{.Content.Body}}</p>
  {{if .Link}}<p><a href="{{.Link}}" style="background:#0a66c2;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;">{{.Content.Action}}</a></p>
  <p style="font-size:12px;color:#888;">{{.Link}}</p>{{end}}
  <p>Barefoot Nomad</p>
</body>
</html>`))

func renderBody(msg Message) (string, error) {
	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, msg); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return body.String(), nil
}

// buildMessage assembles the MIME message for msg.
func (d *SMTPDispatcher) buildMessage(msg Message) (*gomail.Msg, error) {
	body, err := renderBody(msg)
	if err != nil {
		return nil, err
	}
	m := gomail.NewMsg()
	if err := m.From(d.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.AddToFormat(msg.Name, msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Content.Subject)
	m.SetDate()
	m.SetBodyString(gomail.TypeTextHTML, body)
	return m, nil
}

func (d *SMTPDispatcher) client() (*gomail.Client, error) {
	port, err := strconv.Atoi(d.cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", d.cfg.Port, err)
	}
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(defaultSendTimeout),
		gomail.WithDialContextFunc(d.dialWithDeadline),
	}
	if d.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(d.cfg.Username),
			gomail.WithPassword(d.cfg.Password),
		)
	}
	return gomail.NewClient(d.cfg.Host, opts...)
}

// dialWithDeadline ties every read and write of the SMTP session to the
// context deadline, so a silent server cannot hold the connection open.
func (d *SMTPDispatcher) dialWithDeadline(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.dial(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultSendTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Send delivers msg. The whole session ends by ctx's deadline.
func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is empty")
	}
	m, err := d.buildMessage(msg)
	if err != nil {
		return err
	}
	client, err := d.client()
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSendTimeout)
		defer cancel()
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
