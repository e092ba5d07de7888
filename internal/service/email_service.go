package service

import (
	"context"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/mail"
)

type EmailService struct {
	catalog *mail.Catalog
	mailer  mail.Mailer
	logger  logging.Logger
}

type RenderEmailInput struct {
	Fields map[string]string `json:"fields"`
}

type SendEmailInput struct {
	To     string            `json:"to" binding:"required,email"`
	ToName string            `json:"toName"`
	Fields map[string]string `json:"fields"`
}

func NewEmailService(catalog *mail.Catalog, mailer mail.Mailer, logger logging.Logger) *EmailService {
	return &EmailService{catalog: catalog, mailer: mailer, logger: logger}
}

func (s *EmailService) List() []mail.Template {
	return s.catalog.List()
}

func (s *EmailService) Render(id string, fields map[string]string) (*mail.Rendered, *apperrors.APIError) {
	tmpl, ok := s.catalog.Get(id)
	if !ok {
		return nil, apperrors.NotFound("email_template_not_found", "email template not found")
	}
	rendered := tmpl.Render(fields)
	return &rendered, nil
}

func (s *EmailService) Send(ctx context.Context, id string, input SendEmailInput) (*mail.Rendered, *apperrors.APIError) {
	rendered, apiErr := s.Render(id, input.Fields)
	if apiErr != nil {
		return nil, apiErr
	}

	err := s.mailer.Send(ctx, mail.Message{
		To:      mail.Address{Name: input.ToName, Email: input.To},
		Subject: rendered.Subject,
		Body:    rendered.Body,
	})
	if err != nil {
		s.logger.Error("send email", id, err)
		return nil, apperrors.Unavailable("email_delivery_failed", "could not send the email, please try again")
	}
	return rendered, nil
}
