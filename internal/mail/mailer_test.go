package mail

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func testMailer() *SMTPMailer {
	m := NewSMTPMailer("relay.internal:25", "quotes@vantage.example", "", "")
	m.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return m
}

func TestBuildPlainMessage(t *testing.T) {
	raw := string(testMailer().build(Message{
		To:      "fahad@alamal.example",
		Subject: "Quotation QUO-2026-0042",
		Body:    "Please find your quotation attached.",
	}))

	for _, want := range []string{
		"From: quotes@vantage.example\r\n",
		"To: fahad@alamal.example\r\n",
		"Subject: Quotation QUO-2026-0042\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
		"Please find your quotation attached.",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
	if strings.Contains(raw, "multipart/mixed") {
		t.Fatal("plain message must not be multipart")
	}
}

func TestBuildMessageWithAttachment(t *testing.T) {
	payload := bytes.Repeat([]byte("%PDF-stub "), 50)
	raw := string(testMailer().build(Message{
		To:             "fahad@alamal.example",
		Subject:        "Quotation QUO-2026-0042",
		Body:           "Attached.",
		Attachment:     payload,
		AttachmentName: "QUO-2026-0042.pdf",
	}))

	for _, want := range []string{
		`Content-Type: multipart/mixed; boundary="vantage-mixed-boundary"`,
		`Content-Type: application/pdf; name="QUO-2026-0042.pdf"`,
		"Content-Transfer-Encoding: base64\r\n",
		`Content-Disposition: attachment; filename="QUO-2026-0042.pdf"`,
		"--vantage-mixed-boundary--\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}

	// The attachment must survive the base64 line wrapping intact.
	parts := strings.Split(raw, "Content-Disposition: attachment; filename=\"QUO-2026-0042.pdf\"\r\n\r\n")
	if len(parts) != 2 {
		t.Fatalf("attachment section not found:\n%s", raw)
	}
	body := strings.SplitN(parts[1], "--vantage-mixed-boundary--", 2)[0]
	for _, line := range strings.Split(strings.TrimSpace(body), "\r\n") {
		if len(line) > 76 {
			t.Fatalf("base64 line exceeds 76 chars: %d", len(line))
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(strings.TrimSpace(body), "\r\n", ""))
	if err != nil {
		t.Fatalf("decode attachment: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatal("attachment bytes changed through encoding")
	}
}
