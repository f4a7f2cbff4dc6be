package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailerFallsBackToLog(t *testing.T) {
	assert.IsType(t, LogMailer{}, NewMailer("", "", "", "shop@example.com"))
	assert.IsType(t, LogMailer{}, NewMailer("postmark", "", "", "shop@example.com"))
	assert.IsType(t, &PostmarkMailer{}, NewMailer("postmark", "token", "", "shop@example.com"))
	assert.IsType(t, &SendgridMailer{}, NewMailer("sendgrid", "", "key", "shop@example.com"))
}

func TestNewSMSSenderFallsBackToLog(t *testing.T) {
	assert.IsType(t, LogSMSSender{}, NewSMSSender("", "", ""))
	assert.IsType(t, &TwilioSender{}, NewSMSSender("AC123", "token", "+15550100"))
}

func TestOTPEmailContainsCode(t *testing.T) {
	subject, html := OTPEmail("482910")
	assert.Equal(t, "Verify your email.", subject)
	assert.Contains(t, html, "482910")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.NoError(t, r.SendSMS(context.Background(), "+919876543210", "Your OTP code is: 123456"))
	require.Len(t, r.SMS(), 1)
	assert.Equal(t, "+919876543210", r.SMS()[0].To)

	assert.NoError(t, r.SendMail(context.Background(), "a@example.com", "Hi", "<p>hi</p>"))
	assert.Equal(t, "Hi", r.Mails()[0].Subject)
}
