package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type recordedEmail struct {
	Auth    string
	Payload emailPayload
}

// emailServer captures every message posted to it and answers with the given
// status code.
func emailServer(t *testing.T, status int) (*httptest.Server, func() []recordedEmail) {
	t.Helper()

	var mu sync.Mutex
	var got []recordedEmail

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p emailPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		mu.Lock()
		got = append(got, recordedEmail{Auth: r.Header.Get("Authorization"), Payload: p})
		mu.Unlock()
		w.WriteHeader(status)
	}))

	return srv, func() []recordedEmail {
		mu.Lock()
		defer mu.Unlock()
		out := make([]recordedEmail, len(got))
		copy(out, got)
		return out
	}
}

func emailSenderFor(srv *httptest.Server) *HTTPEmailSender {
	s := NewHTTPEmailSender(EmailConfig{
		APIURL:       srv.URL,
		APIKey:       "test-key",
		From:         "bookings@krishnatech.example",
		AdminEmail:   "owner@krishnatech.example",
		BusinessName: "Krishna Tech Solutions",
	})
	s.client = srv.Client()
	return s
}

func TestSendBookingEmails_SendsAdminAndCustomer(t *testing.T) {
	srv, sent := emailServer(t, http.StatusOK)
	defer srv.Close()
	s := emailSenderFor(srv)

	res, err := s.SendBookingEmails(context.Background(), testBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.AdminSent || !res.CustomerSent {
		t.Errorf("expected both messages sent, got %+v", res)
	}

	msgs := sent()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Auth != "Bearer test-key" {
		t.Errorf("wrong auth header: %q", msgs[0].Auth)
	}
	if msgs[0].Payload.To[0] != "owner@krishnatech.example" {
		t.Errorf("first message must go to the admin, got %v", msgs[0].Payload.To)
	}
	if msgs[1].Payload.To[0] != "asha@example.com" {
		t.Errorf("second message must go to the customer, got %v", msgs[1].Payload.To)
	}
}

func TestSendBookingEmails_BadCustomerAddressSkipsCustomerOnly(t *testing.T) {
	srv, sent := emailServer(t, http.StatusOK)
	defer srv.Close()
	s := emailSenderFor(srv)

	b := testBooking()
	b.Email = "not-an-email"

	res, err := s.SendBookingEmails(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.AdminSent {
		t.Error("admin message must still be sent")
	}
	if res.CustomerSent {
		t.Error("customer message must be skipped for a malformed address")
	}
	if got := len(sent()); got != 1 {
		t.Errorf("expected 1 message, got %d", got)
	}
}

func TestSendBookingEmails_ProviderErrorReported(t *testing.T) {
	srv, _ := emailServer(t, http.StatusBadGateway)
	defer srv.Close()
	s := emailSenderFor(srv)

	res, err := s.SendBookingEmails(context.Background(), testBooking())
	if err == nil {
		t.Fatal("expected error when every send fails")
	}
	if res.AdminSent || res.CustomerSent {
		t.Errorf("no message should count as sent, got %+v", res)
	}
}

func TestSendBookingEmails_NotConfigured(t *testing.T) {
	s := NewHTTPEmailSender(EmailConfig{})

	_, err := s.SendBookingEmails(context.Background(), testBooking())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
