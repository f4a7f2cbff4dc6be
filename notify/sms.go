package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if msg.Sid != nil {
		log.Printf("[SMS] sent sid=%s", *msg.Sid)
	}
	return nil
}

type LogSMSSender struct{}

func (LogSMSSender) SendSMS(ctx context.Context, to, body string) error {
	log.Printf("[SMS] to=%s (no provider configured)", to)
	return nil
}

func NewSMSSender(accountSID, authToken, from string) SMSSender {
	if accountSID == "" || authToken == "" || from == "" {
		return LogSMSSender{}
	}
	return NewTwilioSender(accountSID, authToken, from)
}

// Recorder keeps messages in memory. Tests use it to read the OTP that
// would have been delivered.
type Recorder struct {
	mu    sync.Mutex
	mails []Message
	sms   []Message
}

type Message struct {
	To, Subject, Body string
}

func (r *Recorder) SendMail(ctx context.Context, to, subject, html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, Message{To: to, Subject: subject, Body: html})
	return nil
}

func (r *Recorder) SendSMS(ctx context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sms = append(r.sms, Message{To: to, Body: body})
	return nil
}

func (r *Recorder) Mails() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.mails...)
}

func (r *Recorder) SMS() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sms...)
}
