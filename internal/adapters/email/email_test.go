package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodplace/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTemplateRenderer_WaitlistPromotion(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.WaitlistPromotionEmailData{
		Email:      "u@example.com",
		Name:       "Ana <admin>",
		EventTitle: "Beach cleanup",
		EventDate:  "Tuesday 1 December 2026, 09:00 UTC",
	}

	subject, html, text, err := r.Render("waitlist_promotion", data)
	require.NoError(t, err)
	assert.Equal(t, "Your seat for Beach cleanup is confirmed", subject)
	assert.Contains(t, html, "Ana &lt;admin&gt;")
	assert.Contains(t, html, "Tuesday 1 December 2026, 09:00 UTC")
	assert.Contains(t, text, "Hi Ana <admin>,")
	assert.Contains(t, text, "confirmed")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.Error(t, err)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	tests := []struct {
		name       string
		fromName   string
		html, text string
		clientErr  error
		wantSource string
		wantErr    bool
	}{
		{name: "html and text", fromName: "Good Place", html: "<p>hi</p>", text: "hi", wantSource: "Good Place <no-reply@example.com>"},
		{name: "text only without from name", text: "hi", wantSource: "no-reply@example.com"},
		{name: "client error", text: "hi", clientErr: errors.New("throttled"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSES{err: tt.clientErr}
			m := newSESMailer(client, MailerConfig{FromAddress: "no-reply@example.com", FromName: tt.fromName}, discardLogger())

			err := m.Send("u@example.com", "Subject", tt.html, tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, client.input)
			assert.Equal(t, tt.wantSource, aws.ToString(client.input.Source))
			assert.Equal(t, []string{"u@example.com"}, client.input.Destination.ToAddresses)
			assert.Equal(t, "Subject", aws.ToString(client.input.Message.Subject.Data))
			if tt.html == "" {
				assert.Nil(t, client.input.Message.Body.Html)
			} else {
				assert.Equal(t, tt.html, aws.ToString(client.input.Message.Body.Html.Data))
			}
			assert.Equal(t, tt.text, aws.ToString(client.input.Message.Body.Text.Data))
		})
	}
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: ProviderNoop}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
	require.NoError(t, m.Send("u@example.com", "s", "h", "t"))

	m, err = NewMailer(MailerConfig{Provider: "smtp"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: ProviderSES}, discardLogger())
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: ProviderSES, FromAddress: "no-reply@example.com", SES: SESConfig{Region: "eu-west-3", AccessKeyID: "AKIA", SecretAccessKey: "secret"}}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}
