package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"io"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// Config carries the SMTP connection and addressing parameters.
type Config struct {
	From     string
	To       string
	Server   string
	Port     int
	Username string
	Password string
}

// SMTPMailer wraps a digest in the fixed HTML card template and delivers
// it over SMTP with STARTTLS. One message per run, no retry, no delivery
// confirmation beyond the transaction completing.
type SMTPMailer struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, now: time.Now}
}

// Send delivers one message. bodyHTML is the sanitized digest fragment;
// plain-text model output passes through with line breaks preserved.
func (m *SMTPMailer) Send(subject, bodyHTML string) error {
	msg := m.buildMessage(subject, bodyHTML)
	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Quit()

	if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Server}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Server)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(m.cfg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return nil
}

// buildMessage assembles a multipart/alternative message with a
// tag-stripped plain part and the templated HTML part.
func (m *SMTPMailer) buildMessage(subject, bodyHTML string) []byte {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	plain, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="utf-8"`},
	})
	io.WriteString(plain, stripTags(bodyHTML))

	htmlPart, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="utf-8"`},
	})
	io.WriteString(htmlPart, m.render(bodyHTML))

	mw.Close()

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", headerValue(m.cfg.From))
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(m.cfg.To))
	fmt.Fprintf(&msg, "Subject: %s\r\n", encodeSubject(headerValue(subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes()
}

var emailTmpl = template.Must(template.New("digest").Parse(`<html>
  <body style="margin:0; padding:0; background-color:#f5f5f5;">
    <div style="max-width:750px; margin:20px auto; font-family:Arial, sans-serif;">
      <div style="background:#ffffff; border-radius:10px; padding:20px 24px; box-shadow:0 2px 8px rgba(0,0,0,0.08);">
        <h2 style="margin-top:0; font-size:22px;">Business News Digest</h2>
        <p style="margin:0; color:#777; font-size:12px;">
          Generated automatically on <b>{{.GeneratedAt}}</b>
        </p>
        <hr style="margin:16px 0; border:none; border-top:1px solid #eee;">
        <p style="font-size:14px; color:#333; line-height:1.6;">
          <b>How to read this:</b> each story is explained as <i>Cause &rarr; Effect &rarr; Why it matters</i>.
        </p>
        <div style="font-size:14px; color:#111; line-height:1.6; margin-top:8px;">
          {{.Body}}
        </div>
        <hr style="margin:20px 0; border:none; border-top:1px solid #eee;">
        <p style="font-size:12px; color:#999; margin:0;">
          This summary is auto-generated from multiple business news sources.
        </p>
      </div>
    </div>
  </body>
</html>`))

type templateData struct {
	GeneratedAt string
	Body        template.HTML
}

// render wraps the digest fragment in the card template, preserving the
// model's line breaks.
func (m *SMTPMailer) render(bodyHTML string) string {
	var sb strings.Builder
	_ = emailTmpl.Execute(&sb, templateData{
		GeneratedAt: m.now().UTC().Format("2006-01-02 15:04 UTC"),
		Body:        template.HTML(strings.ReplaceAll(bodyHTML, "\n", "<br>")),
	})
	return sb.String()
}

// headerValue strips CR/LF so a configured subject or address cannot
// smuggle extra headers into the message.
func headerValue(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

// encodeSubject applies RFC 2047 encoding when the subject is not plain
// ASCII.
func encodeSubject(subject string) string {
	for _, r := range subject {
		if r > 127 {
			return mime.QEncoding.Encode("utf-8", subject)
		}
	}
	return subject
}

// stripTags produces the plain-text alternative part.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
