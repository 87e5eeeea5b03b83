package mailer

import (
	"context"

	"github.com/oksasatya/go-identity-service/pkg/helpers"
	tpl "github.com/oksasatya/go-identity-service/pkg/mailer/templates"
)

// Queue publishes email jobs to RabbitMQ instead of sending inline;
// cmd/email_worker consumes them and delivers through Mailgun. Publishing
// is the awaited step, so a broker failure still fails the operation.
type Queue struct {
	Pub       *helpers.RabbitPublisher
	VerifyURL string
	ResetURL  string
}

func NewQueue(pub *helpers.RabbitPublisher, verifyURL, resetURL string) *Queue {
	return &Queue{Pub: pub, VerifyURL: verifyURL, ResetURL: resetURL}
}

func (q *Queue) SendVerificationEmail(ctx context.Context, to, token string) error {
	return q.Pub.PublishJSON(ctx, EmailJob{
		To:       to,
		Template: tpl.VerifyAccount,
		Data:     map[string]any{"Link": TokenLink(q.VerifyURL, to, token)},
	})
}

func (q *Queue) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	return q.Pub.PublishJSON(ctx, EmailJob{
		To:       to,
		Template: tpl.ResetPassword,
		Data:     map[string]any{"Link": TokenLink(q.ResetURL, to, token)},
	})
}
