package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending
// email. Template names come from pkg/mailer/templates.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}
