package deployment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// ---------------------------------------------------------------------------
// Stub remote connection
// ---------------------------------------------------------------------------

type stubConn struct {
	execErr error
	execs   []string
	closed  bool
}

func (c *stubConn) Exec(_ context.Context, sql string) error {
	c.execs = append(c.execs, sql)
	return c.execErr
}

func (c *stubConn) Close(context.Context) error {
	c.closed = true
	return nil
}

func connectorFor(conn *stubConn, dialErr error) Connector {
	return func(context.Context, string) (RemoteConn, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return conn, nil
	}
}

// ---------------------------------------------------------------------------
// Probe classification
// ---------------------------------------------------------------------------

func TestProbe_DialFailure(t *testing.T) {
	svc := NewService(nil, nil, connectorFor(nil, errors.New("connection refused")), nil)

	if got := svc.probe(context.Background(), "postgres://x"); got != models.ConnectionStatusFailed {
		t.Errorf("want failed, got %q", got)
	}
}

func TestProbe_MissingTableStillCounts(t *testing.T) {
	conn := &stubConn{execErr: &pgconn.PgError{Code: "42P01"}}
	svc := NewService(nil, nil, connectorFor(conn, nil), nil)

	if got := svc.probe(context.Background(), "postgres://x"); got != models.ConnectionStatusConnected {
		t.Errorf("undefined table must count as connected, got %q", got)
	}
	if !conn.closed {
		t.Error("connection must be closed after the probe")
	}
}

func TestProbe_AuthFailure(t *testing.T) {
	conn := &stubConn{execErr: &pgconn.PgError{Code: "28P01"}}
	svc := NewService(nil, nil, connectorFor(conn, nil), nil)

	if got := svc.probe(context.Background(), "postgres://x"); got != models.ConnectionStatusFailed {
		t.Errorf("auth failure must report failed, got %q", got)
	}
}

func TestProbe_SchemaPresent(t *testing.T) {
	conn := &stubConn{}
	svc := NewService(nil, nil, connectorFor(conn, nil), nil)

	if got := svc.probe(context.Background(), "postgres://x"); got != models.ConnectionStatusConnected {
		t.Errorf("want connected, got %q", got)
	}
	if len(conn.execs) != 1 || !strings.Contains(conn.execs[0], "client_profiles") {
		t.Errorf("probe must query the pushed schema, got %v", conn.execs)
	}
}

// ---------------------------------------------------------------------------
// Input validation
// ---------------------------------------------------------------------------

func TestSaveCredentials_Validation(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	actor := uuid.New()

	cases := []struct {
		name     string
		in       SaveCredentialsInput
		wantCode string
	}{
		{
			"missing fields",
			SaveCredentialsInput{ProjectURL: "https://client.example"},
			"missing_fields",
		},
		{
			"bad project url",
			SaveCredentialsInput{ProjectURL: "not a url", AnonKey: "anon", ServiceKey: "postgres://u:p@h/db"},
			"invalid_project_url",
		},
		{
			"ftp project url",
			SaveCredentialsInput{ProjectURL: "ftp://client.example", AnonKey: "anon", ServiceKey: "postgres://u:p@h/db"},
			"invalid_project_url",
		},
		{
			"service key not a dsn",
			SaveCredentialsInput{ProjectURL: "https://client.example", AnonKey: "anon", ServiceKey: "eyJhbGciOi"},
			"invalid_service_key",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SaveCredentials(context.Background(), actor, tc.in)
			if !httperr.IsBusiness(err, tc.wantCode) {
				t.Errorf("want %q, got %v", tc.wantCode, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Credential secrecy
// ---------------------------------------------------------------------------

func TestCredentialsView_NeverExposesServiceKey(t *testing.T) {
	sealed := []byte("sealed-bytes")
	row := &models.ClientCredential{
		ProjectURL:           "https://client.example",
		AnonKey:              "anon-key",
		ServiceKeyCiphertext: sealed,
		ConnectionStatus:     models.ConnectionStatusConnected,
	}

	raw, err := json.Marshal(view(row))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for key := range decoded {
		if strings.Contains(key, "service") || strings.Contains(key, "cipher") {
			t.Errorf("view leaks key %q", key)
		}
	}
	if strings.Contains(string(raw), "sealed-bytes") {
		t.Error("view leaks the sealed value")
	}
}

func TestClientCredentialModel_HidesCiphertextFromJSON(t *testing.T) {
	row := models.ClientCredential{ServiceKeyCiphertext: []byte("super secret")}

	raw, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "Ciphertext") {
		t.Errorf("model marshals the sealed key: %s", raw)
	}
}

// ---------------------------------------------------------------------------
// Schema script
// ---------------------------------------------------------------------------

func TestSchema_StatementsAreIdempotent(t *testing.T) {
	for i, stmt := range Schema() {
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Errorf("statement %d is not idempotent: %s", i, stmt)
		}
	}
}

func TestSchema_SlotIndexIsPartial(t *testing.T) {
	var found bool
	for _, stmt := range Schema() {
		if strings.Contains(stmt, "ux_client_appointments_slot") {
			found = true
			if !strings.Contains(stmt, "WHERE status <> 'cancelled'") {
				t.Error("slot index must exclude cancelled rows")
			}
		}
	}
	if !found {
		t.Error("schema must create the slot uniqueness index")
	}
}
