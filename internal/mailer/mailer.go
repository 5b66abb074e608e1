// internal/mailer/mailer.go
package mailer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"golang.org/x/net/html"
)

// Message is a notification to deliver out-of-band. Either Text or HTML
// must be set; a missing Text body is derived from HTML.
type Message struct {
    Subject     string
    To          []string
    Text        string
    HTML        string
    From        string
    CC          []string
    BCC         []string
    Attachments []Attachment
}

type Attachment struct {
    Filename    string
    ContentType string
    Content     []byte
}

// Mailer delivers messages. Implementations report failures explicitly;
// callers decide whether delivery failure is user-visible.
type Mailer interface {
    Send(msg Message) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
    host     string
    port     string
    user     string
    password string
    from     string
}

func NewSMTPMailer(host, port, user, password, from string) *SMTPMailer {
    return &SMTPMailer{host: host, port: port, user: user, password: password, from: from}
}

func (m *SMTPMailer) Send(msg Message) error {
    prepared, err := prepare(msg, m.from)
    if err != nil {
        return err
    }

    body, err := encode(prepared)
    if err != nil {
        return err
    }

    recipients := append(append(append([]string{}, prepared.To...), prepared.CC...), prepared.BCC...)

    addr := m.host + ":" + m.port
    var auth smtp.Auth
    if m.user != "" {
        auth = smtp.PlainAuth("", m.user, m.password, m.host)
    }
    if err := smtp.SendMail(addr, auth, prepared.From, recipients, body); err != nil {
        return fmt.Errorf("smtp send failed: %v", err)
    }
    return nil
}

// LogMailer is the development fallback when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(msg Message) error {
    prepared, err := prepare(msg, "no-reply@localhost")
    if err != nil {
        return err
    }
    log.Printf("mail (not sent): to=%v subject=%q body=%q", prepared.To, prepared.Subject, prepared.Text)
    return nil
}

// prepare normalizes a message: fills in the sender, derives a plain text
// body from HTML when needed and rejects messages with no body at all.
func prepare(msg Message, defaultFrom string) (Message, error) {
    if len(msg.To) == 0 {
        return msg, errors.New("message has no recipients")
    }
    if msg.Text == "" && msg.HTML != "" {
        msg.Text = StripTags(msg.HTML)
    }
    if msg.Text == "" {
        return msg, errors.New("message has neither text nor html body")
    }
    if msg.From == "" {
        msg.From = defaultFrom
    }
    msg.Subject = strings.TrimSpace(msg.Subject)
    return msg, nil
}

// StripTags reduces an HTML document to its text content.
func StripTags(source string) string {
    tokenizer := html.NewTokenizer(strings.NewReader(source))
    var b strings.Builder
    for {
        switch tokenizer.Next() {
        case html.ErrorToken:
            return strings.TrimSpace(b.String())
        case html.TextToken:
            b.Write(tokenizer.Text())
        }
    }
}

func encode(msg Message) ([]byte, error) {
    var buf bytes.Buffer

    fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
    fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
    if len(msg.CC) > 0 {
        fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(msg.CC, ", "))
    }
    fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
    buf.WriteString("MIME-Version: 1.0\r\n")

    mixed := multipart.NewWriter(&buf)
    fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixed.Boundary())

    var altBuf bytes.Buffer
    alt := multipart.NewWriter(&altBuf)

    textHeader := textproto.MIMEHeader{}
    textHeader.Set("Content-Type", "text/plain; charset=utf-8")
    textPart, err := alt.CreatePart(textHeader)
    if err != nil {
        return nil, err
    }
    textPart.Write([]byte(msg.Text))

    if msg.HTML != "" {
        htmlHeader := textproto.MIMEHeader{}
        htmlHeader.Set("Content-Type", "text/html; charset=utf-8")
        htmlPart, err := alt.CreatePart(htmlHeader)
        if err != nil {
            return nil, err
        }
        htmlPart.Write([]byte(msg.HTML))
    }
    alt.Close()

    altHeader := textproto.MIMEHeader{}
    altHeader.Set("Content-Type", "multipart/alternative; boundary="+alt.Boundary())
    altPart, err := mixed.CreatePart(altHeader)
    if err != nil {
        return nil, err
    }
    altPart.Write(altBuf.Bytes())

    for _, att := range msg.Attachments {
        contentType := att.ContentType
        if contentType == "" {
            contentType = "application/octet-stream"
        }
        attHeader := textproto.MIMEHeader{}
        attHeader.Set("Content-Type", contentType)
        attHeader.Set("Content-Transfer-Encoding", "base64")
        attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
        part, err := mixed.CreatePart(attHeader)
        if err != nil {
            return nil, err
        }
        part.Write([]byte(base64.StdEncoding.EncodeToString(att.Content)))
    }
    mixed.Close()

    return buf.Bytes(), nil
}
