package services

import (
	"context"
	"fmt"
	"log/slog"

	"virtualbarcamp/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendCoSpeakerAdded tells a user they were listed as an additional speaker, using the "co_speaker_added" template.
func (s *emailService) SendCoSpeakerAdded(ctx context.Context, data *domain.CoSpeakerAddedEmailData) error {
	if data == nil {
		return fmt.Errorf("co-speaker email data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("%w: co-speaker has no email address", domain.ErrInvalidInput)
	}
	subject, htmlBody, textBody, err := s.renderer.Render("co_speaker_added", data)
	if err != nil {
		return fmt.Errorf("failed to render co_speaker_added template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send co-speaker email: %w", err)
	}
	s.logger.InfoContext(ctx, "co-speaker email sent", "to", data.Email, "talk", data.TalkTitle)
	return nil
}
