package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) *EmailService {
	return &EmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendReminder delivers one reminder to every address on file for a
// client (up to three). The first transport error aborts the remaining
// addresses; the caller treats the whole send as failed and the client
// stays eligible.
func (s *EmailService) SendReminder(toName string, addresses []string, subject, plain, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)

	for _, address := range addresses {
		to := mail.NewEmail(toName, address)
		message := mail.NewSingleEmail(from, subject, to, plain, html)

		response, err := s.client.Send(message)
		if err != nil {
			return fmt.Errorf("send to %s: %w", address, err)
		}
		if response.StatusCode >= 400 {
			return fmt.Errorf("failed to send email to %s: %d", address, response.StatusCode)
		}
	}
	return nil
}
