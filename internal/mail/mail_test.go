package mail

import (
	"context"
	"errors"
	"net"
	"runtime"
	"strings"
	"testing"
	"time"

	"barefoot/internal/config"

	"github.com/sirupsen/logrus/hooks/test"
)

func testMessage() Message {
	return Message{
		To:   "jane@example.com",
		Name: "Jane",
		Content: Content{
			Subject:  "Verify your Barefoot Nomad account",
			Greeting: "Hello Jane,",
			Body:     "Click below <now>",
			Action:   "Verify email",
		},
		Link: "http://localhost:3000/api/v1/auth/verification?token=abc&email=jane@example.com",
	}
}

func TestRenderBodyEscapesBodyAndKeepsLink(t *testing.T) {
	body, err := renderBody(testMessage())
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if !strings.Contains(body, "Click below &lt;now&gt;") {
		t.Fatal("expected body to be HTML escaped")
	}
	if !strings.Contains(body, "token=abc") {
		t.Fatal("expected action link in body")
	}
}

func TestBuildMessageAddressesRecipient(t *testing.T) {
	d := NewSMTPDispatcher(SMTPConfig{Host: "smtp.example.com", From: "Barefoot Nomad <no-reply@barefootnomad.com>"})
	m, err := d.buildMessage(testMessage())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	rcpts, err := m.GetRecipients()
	if err != nil {
		t.Fatalf("unexpected recipients error: %v", err)
	}
	if len(rcpts) != 1 || rcpts[0] != "jane@example.com" {
		t.Fatalf("unexpected recipients %v", rcpts)
	}

	d = NewSMTPDispatcher(SMTPConfig{Host: "smtp.example.com", From: "not an address"})
	if _, err := d.buildMessage(testMessage()); err == nil {
		t.Fatal("expected invalid sender to be rejected")
	}
}

func TestSendDialsConfiguredServer(t *testing.T) {
	d := NewSMTPDispatcher(SMTPConfig{Host: "smtp.example.com", Port: "2525", Username: "u", Password: "p", From: "no-reply@barefootnomad.com"})
	refused := errors.New("connection refused")
	var gotAddr string
	d.dial = func(_ context.Context, _, addr string) (net.Conn, error) {
		gotAddr = addr
		return nil, refused
	}
	if err := d.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected dial failure to surface")
	}
	if gotAddr != "smtp.example.com:2525" {
		t.Fatalf("unexpected server address %q", gotAddr)
	}
}

func TestSendRejectsBadPortAndRecipient(t *testing.T) {
	d := NewSMTPDispatcher(SMTPConfig{Host: "smtp.example.com", Port: "smtp", From: "no-reply@barefootnomad.com"})
	if err := d.Send(context.Background(), testMessage()); err == nil || !strings.Contains(err.Error(), "invalid SMTP port") {
		t.Fatalf("expected port error, got %v", err)
	}
	msg := testMessage()
	msg.To = " "
	if err := d.Send(context.Background(), msg); err == nil {
		t.Fatal("expected empty recipient to be rejected")
	}
}

func TestSendReleasesSilentServerConnections(t *testing.T) {
	// The listener never accepts, so no greeting is ever sent.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	d := NewSMTPDispatcher(SMTPConfig{Host: "127.0.0.1", Port: port, From: "no-reply@barefootnomad.com"})
	before := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		start := time.Now()
		err := d.Send(ctx, testMessage())
		cancel()
		if err == nil {
			t.Fatal("expected silent server to fail the send")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("send blocked for %v", elapsed)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if after := runtime.NumGoroutine(); after > before {
		t.Fatalf("goroutines before=%d after=%d", before, after)
	}
}

func TestNewDispatcherFallsBackToLog(t *testing.T) {
	if _, ok := NewDispatcher(config.Config{}).(LogDispatcher); !ok {
		t.Fatal("expected log dispatcher without SMTP host")
	}
	if _, ok := NewDispatcher(config.Config{SMTPHost: "smtp.example.com"}).(*SMTPDispatcher); !ok {
		t.Fatal("expected SMTP dispatcher with host")
	}
}

func TestLogDispatcherRedactsToken(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	if err := (LogDispatcher{}).Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("log dispatcher should not fail: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	link, _ := entry.Data["link"].(string)
	if strings.Contains(link, "abc") || !strings.Contains(link, "token=REDACTED") {
		t.Fatalf("token not redacted: %q", link)
	}
	if !strings.Contains(link, "email=jane%40example.com") {
		t.Fatalf("expected other parameters to survive: %q", link)
	}
}

func TestRedactLinkWithoutToken(t *testing.T) {
	if got := redactLink("http://app.test/home"); got != "http://app.test/home" {
		t.Fatalf("unexpected %q", got)
	}
}
