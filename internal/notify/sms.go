package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSConfig points at a Twilio-style messaging API: basic auth with account
// credentials, form-encoded POST to /Accounts/{sid}/Messages.json.
type SMSConfig struct {
	APIURL       string
	AccountID    string
	AuthToken    string
	From         string
	AdminPhone   string
	BusinessName string
}

type HTTPSMSSender struct {
	cfg    SMSConfig
	client *http.Client
}

func NewHTTPSMSSender(cfg SMSConfig) *HTTPSMSSender {
	return &HTTPSMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendBookingSMS texts the business number about a new booking.
func (s *HTTPSMSSender) SendBookingSMS(ctx context.Context, b Booking) (SMSResult, error) {
	if s.cfg.APIURL == "" || s.cfg.AccountID == "" || s.cfg.AuthToken == "" {
		return SMSResult{}, ErrNotConfigured
	}
	if s.cfg.AdminPhone == "" {
		return SMSResult{}, fmt.Errorf("no admin phone to notify")
	}

	body := fmt.Sprintf("%s: new booking %s on %s at %s. %s",
		s.cfg.BusinessName, b.Reference, b.Date, b.Time, contactLine(b))

	form := url.Values{}
	form.Set("To", s.cfg.AdminPhone)
	form.Set("From", s.cfg.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json",
		strings.TrimRight(s.cfg.APIURL, "/"), s.cfg.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return SMSResult{}, fmt.Errorf("sms request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return SMSResult{}, fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return SMSResult{}, fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed struct {
		Sid string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return SMSResult{}, fmt.Errorf("sms response: %w", err)
	}
	return SMSResult{MessageSid: parsed.Sid}, nil
}

func contactLine(b Booking) string {
	if b.Phone != "" {
		return fmt.Sprintf("%s (%s)", b.Name, b.Phone)
	}
	return b.Name
}
