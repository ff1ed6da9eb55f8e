package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/accountd/pkg/email"
)

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	valid := email.Message{To: "user@example.com", Subject: "Welcome", BodyHTML: "<p>hi</p>"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		msg  email.Message
		want error
	}{
		{"missing recipient", email.Message{Subject: "s", BodyHTML: "b"}, email.ErrInvalidRecipient},
		{"malformed recipient", email.Message{To: "not-an-email", Subject: "s", BodyHTML: "b"}, email.ErrInvalidRecipient},
		{"missing subject", email.Message{To: "user@example.com", BodyHTML: "b"}, email.ErrMissingSubject},
		{"missing body", email.Message{To: "user@example.com", Subject: "s"}, email.ErrMissingBody},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.msg.Validate(), tt.want)
		})
	}
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sender := email.NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	err := sender.Send(context.Background(), email.Message{
		To:       "user@example.com",
		Subject:  "Welcome to Probelab",
		BodyHTML: "<p>hi</p>",
		Tag:      "welcome",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "user@example.com")
	assert.Contains(t, buf.String(), "welcome")
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	_, err := email.NewPostmarkSender(email.Config{})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewPostmarkSender(email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "no-reply@probelab.dev",
		SupportEmail:         "support@probelab.dev",
	})
	require.NoError(t, err)
}
