package email

import "context"

// Sender represents an interface for sending transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message represents a single outbound email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks that the message carries the minimum deliverable fields.
func (m Message) Validate() error {
	if m.To == "" || !emailRegex.MatchString(m.To) {
		return ErrInvalidRecipient
	}
	if m.Subject == "" {
		return ErrMissingSubject
	}
	if m.BodyHTML == "" {
		return ErrMissingBody
	}
	return nil
}
