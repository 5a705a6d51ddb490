package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Igsankya24/krishna-tech-solutions/internal/validators"
)

// EmailConfig points at a JSON transactional-email API (Resend-style:
// bearer key, POST {from, to, subject, html}).
type EmailConfig struct {
	APIURL       string
	APIKey       string
	From         string
	AdminEmail   string
	BusinessName string
}

type HTTPEmailSender struct {
	cfg    EmailConfig
	client *http.Client
}

func NewHTTPEmailSender(cfg EmailConfig) *HTTPEmailSender {
	return &HTTPEmailSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendBookingEmails sends the admin notification and the customer
// confirmation. The two sends are independent; a customer address that does
// not look like an email skips only the customer message. The returned error
// is non-nil only when no message went out.
func (s *HTTPEmailSender) SendBookingEmails(ctx context.Context, b Booking) (EmailResult, error) {
	if s.cfg.APIURL == "" || s.cfg.APIKey == "" {
		return EmailResult{}, ErrNotConfigured
	}

	var res EmailResult
	var adminErr, customerErr error

	if s.cfg.AdminEmail != "" {
		adminErr = s.post(ctx, emailPayload{
			From:    s.cfg.From,
			To:      []string{s.cfg.AdminEmail},
			Subject: fmt.Sprintf("New booking %s: %s %s", b.Reference, b.Date, b.Time),
			HTML:    adminBookingHTML(b),
		})
		res.AdminSent = adminErr == nil
	}

	if validators.IsEmailShapeValid(b.Email) {
		customerErr = s.post(ctx, emailPayload{
			From:    s.cfg.From,
			To:      []string{b.Email},
			Subject: fmt.Sprintf("We received your booking, %s", b.Name),
			HTML:    customerBookingHTML(s.cfg.BusinessName, b),
		})
		res.CustomerSent = customerErr == nil
	}

	if !res.AdminSent && !res.CustomerSent {
		if adminErr != nil {
			return res, adminErr
		}
		if customerErr != nil {
			return res, customerErr
		}
		return res, fmt.Errorf("no recipient to notify")
	}
	return res, nil
}

func (s *HTTPEmailSender) post(ctx context.Context, p emailPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

func adminBookingHTML(b Booking) string {
	return fmt.Sprintf(
		`<h2>New booking %s</h2>
<p><strong>Date:</strong> %s at %s</p>
<p><strong>Customer:</strong> %s (%s%s)</p>
<p><strong>Service:</strong> %s</p>
<p><strong>Notes:</strong> %s</p>`,
		b.Reference, b.Date, b.Time, b.Name, b.Email, phoneSuffix(b.Phone), orDash(b.ServiceType), orDash(b.Notes),
	)
}

func customerBookingHTML(business string, b Booking) string {
	return fmt.Sprintf(
		`<h2>Thanks for booking with %s!</h2>
<p>Your booking reference is <strong>%s</strong>.</p>
<p>We have you down for <strong>%s</strong> at <strong>%s</strong>. We'll confirm shortly.</p>
<p>If you need to change or cancel, reply to this email with your reference.</p>`,
		business, b.Reference, b.Date, b.Time,
	)
}

func phoneSuffix(phone string) string {
	if phone == "" {
		return ""
	}
	return ", " + phone
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
