package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAddresses(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "ops@example.com", []string{"ops@example.com"}},
		{"list", "a@example.com, b@example.com", []string{"a@example.com", "b@example.com"}},
		{"trailing comma", "a@example.com,", []string{"a@example.com"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitAddresses(tt.in))
		})
	}
}

func TestSendRejectsEmptyRecipients(t *testing.T) {
	s := NewSMTP("localhost", 25, "", "")
	err := s.Send(context.Background(), &Message{
		From:    "notices@example.com",
		Subject: "Incident Alert",
		Text:    "body",
	})
	assert.True(t, errors.Is(err, DeliveryErr{}))
}

func TestSendRejectsInvalidSender(t *testing.T) {
	s := NewSMTP("localhost", 25, "", "")
	err := s.Send(context.Background(), &Message{
		From:    "not-an-address",
		To:      "ops@example.com",
		Subject: "Incident Alert",
		Text:    "body",
	})
	assert.True(t, errors.Is(err, DeliveryErr{}))
}
