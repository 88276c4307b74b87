package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	resendEndpoint      = "https://api.resend.com/emails"
	notificationTimeout = 10 * time.Second
)

// Notification is an email to the site admin. Link is relative to the site base URL.
type Notification struct {
	To      []string
	Subject string
	Body    string
	Link    string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Notification) error { return nil }

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailNotifier sends notifications through the Resend API.
type EmailNotifier struct {
	apiKey     string
	from       string
	fallbackTo string
	siteURL    string
	endpoint   string
	client     *http.Client
}

// NewEmailNotifier reads RESEND_API_KEY, RESEND_FROM_EMAIL, ADMIN_EMAIL and
// SITE_BASE_URL. Without an API key or sender it returns a NoopNotifier.
func NewEmailNotifier(cfg map[string]string) Notifier {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	if apiKey == "" || from == "" {
		log.Warn().Msg("RESEND_API_KEY or RESEND_FROM_EMAIL not set, email notifications disabled")
		return NoopNotifier{}
	}
	return &EmailNotifier{
		apiKey:     apiKey,
		from:       from,
		fallbackTo: config.GetString(cfg, "ADMIN_EMAIL", ""),
		siteURL:    strings.TrimRight(config.GetString(cfg, "SITE_BASE_URL", ""), "/"),
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: notificationTimeout},
	}
}

// Notify sends n, addressed to ADMIN_EMAIL when n has no recipients.
func (e *EmailNotifier) Notify(ctx context.Context, n Notification) error {
	recipients := n.To
	if len(recipients) == 0 && e.fallbackTo != "" {
		recipients = []string{e.fallbackTo}
	}
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	body := n.Body
	if n.Link != "" && e.siteURL != "" {
		link := e.siteURL + n.Link
		body += fmt.Sprintf(`<p><a href="%s">%s</a></p>`, html.EscapeString(link), html.EscapeString(link))
	}

	payload := ResendEmailRequest{
		From:    e.from,
		To:      recipients,
		Subject: n.Subject,
		Html:    body,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return errs.NewNotificationError("email", fmt.Errorf("failed to send request to Resend API: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewNotificationError("email", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message))
		}
		return errs.NewNotificationError("email", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
