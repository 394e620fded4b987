// Package mail provides email sending functionality via the Mailtrap API.
package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

var (
	apiKey = os.Getenv("MAILTRAP_API_KEY")
	url    = os.Getenv("MAILTRAP_API_URL")
)

// Service is the outbound email surface the API depends on.
type Service interface {
	SendEmailConfirmation(toEmail, toUsername, confirmURL string) error
}

type MailService struct {
	APIKey string
	URL    string
}

func NewMailService() *MailService {
	return &MailService{
		APIKey: apiKey,
		URL:    url,
	}
}

// EmailRecipient represents an email recipient
type EmailRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// EmailRequest represents the request payload for sending an email
type EmailRequest struct {
	From     EmailRecipient   `json:"from"`
	To       []EmailRecipient `json:"to"`
	Subject  string           `json:"subject"`
	HTML     string           `json:"html,omitempty"`
	Text     string           `json:"text,omitempty"`
	Category string           `json:"category,omitempty"`
}

// SendEmailConfirmation sends the confirmation link a new user must open
// before they can log in.
func (m *MailService) SendEmailConfirmation(toEmail, toUsername, confirmURL string) error {
	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Confirm Your Email</title>
		</head>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
				<h2>Welcome, %s!</h2>
				<p>Thanks for signing up. Click the button below to confirm your email address:</p>
				<p style="margin: 30px 0;">
					<a href="%s" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Confirm Email</a>
				</p>
				<p>Or copy and paste this link into your browser:</p>
				<p style="word-break: break-all; color: #007bff;">%s</p>
				<p>This link will expire in 3 days.</p>
				<p>If you didn't create an account, please ignore this email.</p>
				<hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">
				<p style="font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
			</div>
		</body>
		</html>
	`, toUsername, confirmURL, confirmURL)

	textBody := fmt.Sprintf(`
Welcome, %s!

Thanks for signing up. Click the link below to confirm your email address:

%s

This link will expire in 3 days.

If you didn't create an account, please ignore this email.

---
This is an automated message, please do not reply.
	`, toUsername, confirmURL)

	emailReq := EmailRequest{
		From: EmailRecipient{
			Email: "noreply@contacts.example.com",
			Name:  "Contacts API",
		},
		To: []EmailRecipient{
			{
				Email: toEmail,
				Name:  toUsername,
			},
		},
		Subject:  "Confirm your email",
		HTML:     htmlBody,
		Text:     textBody,
		Category: "email_confirmation",
	}

	return m.sendEmail(emailReq)
}

// sendEmail sends an email via the Mailtrap API
func (m *MailService) sendEmail(emailReq EmailRequest) error {
	payload, err := json.Marshal(emailReq)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequest("POST", m.URL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mailtrap API returned status: %d", resp.StatusCode)
	}

	return nil
}
