package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Mailer is any client that can deliver a transactional email. Sends are
// best-effort throughout the API: callers either fire-and-forget in a
// goroutine or surface the returned error as a send_error response field,
// never as a request failure.
type Mailer interface {
	Send(toName, toEmail, subject, htmlContent string) error
}

type BrevoMailer struct {
	APIKey      string
	SenderEmail string
	SenderName  string

	client *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func NewBrevoMailer(apiKey, senderEmail, senderName string) *BrevoMailer {
	return &BrevoMailer{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoMailer) Send(toName, toEmail, subject, htmlContent string) error {
	url := "https://api.brevo.com/v3/smtp/email"

	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		log.Printf("Brevo API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("failed to send email via Brevo: %s", string(bodyBytes))
	}

	return nil
}

// ConsoleMailer logs messages instead of delivering them; used when no
// Brevo credentials are configured (local development).
type ConsoleMailer struct{}

func (ConsoleMailer) Send(toName, toEmail, subject, htmlContent string) error {
	log.Printf("📧 [console mail] to=%s <%s> subject=%q\n%s", toName, toEmail, subject, htmlContent)
	return nil
}

// SendAsync delivers in a goroutine, logging failures.
func SendAsync(m Mailer, toName, toEmail, subject, htmlContent string) {
	go func() {
		if err := m.Send(toName, toEmail, subject, htmlContent); err != nil {
			log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		}
	}()
}
