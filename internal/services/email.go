package services

import (
	"context"
	"fmt"
	"log"

	"goodplace/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWaitlistPromotion tells a promoted participant their seat is confirmed, using the "waitlist_promotion" template.
func (s *emailService) SendWaitlistPromotion(ctx context.Context, data *domain.WaitlistPromotionEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist promotion data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("waitlist promotion recipient is empty")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("waitlist_promotion", data)
	if err != nil {
		return fmt.Errorf("failed to render waitlist_promotion template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send waitlist promotion email: %w", err)
	}
	log.Printf("[EMAIL] Waitlist promotion sent to %s", data.Email)
	return nil
}
