package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// CoSpeakerAddedEmailData holds data for the email sent to a user listed as an additional speaker.
type CoSpeakerAddedEmailData struct {
	Email     string
	Name      string
	OwnerName string
	TalkTitle string
	RoomName  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCoSpeakerAdded(ctx context.Context, data *CoSpeakerAddedEmailData) error
}
