// Package mail delivers rendered documents through the configured SMTP
// relay.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// Message is one outbound email with an optional single attachment.
type Message struct {
	To             string
	Subject        string
	Body           string
	Attachment     []byte
	AttachmentName string
}

// SMTPMailer sends messages through a plain SMTP relay. Auth is optional;
// in-network relays usually run without it.
type SMTPMailer struct {
	addr     string
	from     string
	username string
	password string
	now      func() time.Time
}

func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	return &SMTPMailer{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
		now:      time.Now,
	}
}

// Send delivers the message. The context is consulted before dialing; the
// smtp package itself does not support cancellation mid-send.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if m.username != "" {
		host := m.addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.username, m.password, host)
	}
	if err := smtp.SendMail(m.addr, auth, m.from, []string{msg.To}, m.build(msg)); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

const mixedBoundary = "vantage-mixed-boundary"

// build assembles the raw RFC 5322 message, multipart/mixed when an
// attachment is present. Base64 lines stay within the RFC 2045 limit.
func (m *SMTPMailer) build(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachment) == 0 {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Body)
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixedBoundary)

	fmt.Fprintf(&b, "--%s\r\n", mixedBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mixedBoundary)
	fmt.Fprintf(&b, "Content-Type: application/pdf; name=%q\r\n", msg.AttachmentName)
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", msg.AttachmentName)

	encoded := base64.StdEncoding.EncodeToString(msg.Attachment)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "--%s--\r\n", mixedBoundary)
	return []byte(b.String())
}
