// Package mail sends transactional email over SMTP. When no SMTP host is
// configured the mailer degrades to a logged no-op; callers treat sending
// as best-effort either way.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/talentbill/talentbill/internal/config"
	"go.uber.org/zap"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

func NewMailer(cfg config.Config, log *zap.Logger) Mailer {
	if !cfg.MailEnabled() {
		log.Info("smtp not configured, outbound mail disabled")
		return noopMailer{log: log.Named("mail")}
	}
	return &smtpMailer{cfg: cfg.SMTP, log: log.Named("mail")}
}

type noopMailer struct {
	log *zap.Logger
}

func (m noopMailer) Send(ctx context.Context, msg Message) error {
	m.log.Debug("mail skipped", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type smtpMailer struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	payload, err := buildMIME(m.cfg.Sender, msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}

	m.log.Info("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func buildMIME(sender string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", sender)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	// multipart.Writer appends after the headers we wrote by hand, so the
	// body parts land inside the boundary we just declared.
	body, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {att.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", att.Filename)},
		})
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(att.Data)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
