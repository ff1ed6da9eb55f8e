package email

import "regexp"

// Config holds email service configuration. The Postmark tokens are optional
// so development environments can run with the log sender instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@probelab.dev"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@probelab.dev"`
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
