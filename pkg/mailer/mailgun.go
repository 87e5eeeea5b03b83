package mailer

import (
	"context"
	"net/url"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	tpl "github.com/oksasatya/go-identity-service/pkg/mailer/templates"
)

// Mailgun sends the transactional emails directly through the Mailgun
// API. Failures are reported to the caller, never retried here.
type Mailgun struct {
	Domain    string
	APIKey    string
	Sender    string
	VerifyURL string
	ResetURL  string
}

func NewMailgun(domain, apiKey, sender, verifyURL, resetURL string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, VerifyURL: verifyURL, ResetURL: resetURL}
}

func (m *Mailgun) SendVerificationEmail(ctx context.Context, to, token string) error {
	return m.sendTemplate(ctx, to, tpl.VerifyAccount, TokenLink(m.VerifyURL, to, token))
}

func (m *Mailgun) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	return m.sendTemplate(ctx, to, tpl.ResetPassword, TokenLink(m.ResetURL, to, token))
}

func (m *Mailgun) sendTemplate(ctx context.Context, to, name, link string) error {
	subject, text, html, err := tpl.Render(name, map[string]any{"Link": link})
	if err != nil {
		return err
	}
	return m.Send(ctx, to, subject, text, html)
}

// Send sends an email via Mailgun. html is optional; if provided it will
// be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// TokenLink builds the front-end URL that carries the email and the
// single-use token back to the API.
func TokenLink(base, email, token string) string {
	return base + "?email=" + url.QueryEscape(email) + "&token=" + url.QueryEscape(token)
}
