package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/export"
	"github.com/pfrederiksen/ugl-courses/internal/logger"
)

// Message is a rendered summary ready to send.
type Message struct {
	RequestID string
	From      string
	To        string
	Subject   string
	Text      string
	HTML      string
}

// FromSummary builds the message for an export summary.
func FromSummary(s *export.Summary, from string) Message {
	return Message{
		RequestID: s.RequestID,
		From:      from,
		To:        s.Recipient,
		Subject:   s.Subject,
		Text:      s.Text,
		HTML:      s.HTML,
	}
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipient is returned for a message without a To address.
var ErrNoRecipient = errors.New("message has no recipient")

// DryRun writes what would be sent instead of sending it.
type DryRun struct {
	w        io.Writer
	withHTML bool
}

// NewDryRun creates a dry-run sender writing to w. withHTML also prints the HTML part.
func NewDryRun(w io.Writer, withHTML bool) *DryRun {
	return &DryRun{w: w, withHTML: withHTML}
}

// Send prints the message headers and body.
func (d *DryRun) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return ErrNoRecipient
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Mail %s ---\n", msg.RequestID)
	if msg.From != "" {
		fmt.Fprintf(&b, "From: %s\n", msg.From)
	}
	fmt.Fprintf(&b, "To: %s\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\n\n", msg.Subject)
	b.WriteString(msg.Text)
	if d.withHTML && msg.HTML != "" {
		b.WriteString("\n--- HTML ---\n")
		b.WriteString(msg.HTML)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(d.w, b.String()); err != nil {
		return fmt.Errorf("writing dry-run mail: %w", err)
	}

	logger.Info("Mail printed (dry run)", logger.Fields{
		"request_id": msg.RequestID,
		"to":         msg.To,
	})
	return nil
}

// Opener hands a URL to something that can open it.
type Opener func(ctx context.Context, link string) error

// PrintOpener returns an opener that prints the link to w.
func PrintOpener(w io.Writer) Opener {
	return func(_ context.Context, link string) error {
		_, err := fmt.Fprintln(w, link)
		return err
	}
}

// Mailto builds a mailto: link for the message and passes it to an opener.
type Mailto struct {
	open Opener
}

// NewMailto creates a Mailto sender.
func NewMailto(open Opener) *Mailto {
	return &Mailto{open: open}
}

// Send opens the mailto: link. Mail clients only accept plain text bodies.
func (m *Mailto) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	link := MailtoURL(msg)
	if err := m.open(ctx, link); err != nil {
		return fmt.Errorf("opening mailto link: %w", err)
	}

	logger.Info("Mail handed to mail client", logger.Fields{
		"request_id": msg.RequestID,
		"to":         msg.To,
	})
	return nil
}

// MailtoURL encodes the recipient, subject and text body as a mailto: URL.
func MailtoURL(msg Message) string {
	q := []string{
		"subject=" + mailtoEscape(msg.Subject),
		"body=" + mailtoEscape(msg.Text),
	}
	return "mailto:" + url.PathEscape(msg.To) + "?" + strings.Join(q, "&")
}

// mailtoEscape query-escapes s with spaces as %20; RFC 6068 has no "+" for space.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
