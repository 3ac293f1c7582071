package sinks

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/solita/smsforward/config"
	"github.com/solita/smsforward/core"
)

var ErrTransmission = errors.New("mail transmission failed")

const forwardIdHeader = "X-SMS-Forward-ID"

// SMTPSink emails each SMS to a fixed recipient through an authenticated
// submission server. Every delivery uses its own connection.
type SMTPSink struct {
	cfg config.Config
	now func() time.Time
}

func NewSMTP(cfg config.Config) *SMTPSink {
	return &SMTPSink{
		cfg: cfg,
		now: time.Now,
	}
}

func (s *SMTPSink) Deliver(ctx context.Context, sms core.SMS) error {
	from, to := s.cfg.Sender, s.cfg.Recipient

	msg, err := s.compose(sms, &from, &to)
	if err != nil {
		return err
	}
	if err := s.send(ctx, from.Address, to.Address, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrTransmission, err)
	}

	slog.Info("Email sent successfully", "id", sms.Id, "recipient", to.Address)
	return nil
}

// compose builds a multipart/alternative message whose only part is the
// rendered HTML.
func (s *SMTPSink) compose(sms core.SMS, from, to *mail.Address) ([]byte, error) {
	html, err := core.BuildEmailHTML(sms.From, sms.To, sms.Text, sms.ReceivedAt)
	if err != nil {
		return nil, err
	}

	var h mail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", []*mail.Address{to})
	h.SetSubject("SMS from " + core.FormatPhoneNumber(sms.From))
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message ID: %w", err)
	}
	if sms.Id != "" {
		h.Set(forwardIdHeader, sms.Id)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	var ph mail.InlineHeader
	ph.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := mw.CreatePart(ph)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTML part: %w", err)
	}
	if _, err := io.WriteString(pw, html); err != nil {
		return nil, fmt.Errorf("failed to write HTML part: %w", err)
	}
	if err := pw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close HTML part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *SMTPSink) send(ctx context.Context, from, to string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SMTPTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.cfg.Address(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock the session if the caller goes away before the deadline
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	var c *smtp.Client
	if s.cfg.SMTPUseTLS {
		c, err = smtp.NewClientStartTLS(conn, &tls.Config{
			ServerName: s.cfg.SMTPServer,
			MinVersion: tls.VersionTLS12,
		})
		if err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	} else {
		c = smtp.NewClient(conn)
	}
	defer c.Close()
	if err = c.Auth(sasl.NewPlainClient("", s.cfg.SMTPUsername, s.cfg.SMTPPassword)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err = c.SendMail(from, []string{to}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("failed to submit message: %w", err)
	}
	return c.Quit()
}

var _ core.Sink = (*SMTPSink)(nil)
