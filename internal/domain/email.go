package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WaitlistPromotionEmailData holds data for the email sent when a waitlisted
// participant gets a confirmed seat.
type WaitlistPromotionEmailData struct {
	Email      string
	Name       string
	EventTitle string
	EventDate  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWaitlistPromotion(ctx context.Context, data *WaitlistPromotionEmailData) error
}
