// Package deployment manages the credentials and schema of a client's hosted
// database. The service key is the remote admin DSN; it is sealed before it
// touches a row and never leaves the server once stored.
package deployment

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/logger"
	"github.com/Igsankya24/krishna-tech-solutions/internal/metrics"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	"github.com/Igsankya24/krishna-tech-solutions/internal/secrets"
	"github.com/Igsankya24/krishna-tech-solutions/internal/storage"
	"github.com/Igsankya24/krishna-tech-solutions/internal/timezone"
)

// Actions accepted by the dispatch endpoint.
const (
	ActionSaveCredentials    = "save_credentials"
	ActionGetCredentials     = "get_credentials"
	ActionTestConnection     = "test_connection"
	ActionInitializeDatabase = "initialize_database"
	ActionDeleteCredentials  = "delete_credentials"
)

// RemoteConn is the slice of a Postgres connection the service needs; tests
// substitute their own.
type RemoteConn interface {
	Exec(ctx context.Context, sql string) error
	Close(ctx context.Context) error
}

type Connector func(ctx context.Context, dsn string) (RemoteConn, error)

type pgxRemote struct {
	conn *pgx.Conn
}

func (r *pgxRemote) Exec(ctx context.Context, sql string) error {
	_, err := r.conn.Exec(ctx, sql)
	return err
}

func (r *pgxRemote) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

// PgxConnector dials the remote project directly.
func PgxConnector(ctx context.Context, dsn string) (RemoteConn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &pgxRemote{conn: conn}, nil
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Service struct {
	db      *gorm.DB
	box     *secrets.Box
	connect Connector
	audit   Auditor
}

func NewService(db *gorm.DB, box *secrets.Box, connect Connector, auditor Auditor) *Service {
	if connect == nil {
		connect = PgxConnector
	}
	return &Service{db: db, box: box, connect: connect, audit: auditor}
}

// ======================================================
// INPUT / OUTPUT
// ======================================================

type SaveCredentialsInput struct {
	ProjectURL string
	AnonKey    string
	ServiceKey string
}

// Credentials is the readable view of the stored row. The sealed service key
// has no field here on purpose.
type Credentials struct {
	ProjectURL       string     `json:"project_url"`
	AnonKey          string     `json:"anon_key"`
	ConnectionStatus string     `json:"connection_status"`
	LastTestedAt     *time.Time `json:"last_tested_at"`
	Initialized      bool       `json:"initialized"`
	InitializedAt    *time.Time `json:"initialized_at"`
}

type TestResult struct {
	Status   string `json:"status"`
	TestedAt string `json:"tested_at"`
}

type InitResult struct {
	StatementsRun    int `json:"statements_run"`
	StatementsFailed int `json:"statements_failed"`
}

// ======================================================
// ACTIONS
// ======================================================

// SaveCredentials replaces the singleton credential row. Status flags reset;
// a new target must be tested and initialized again.
func (s *Service) SaveCredentials(ctx context.Context, actorID uuid.UUID, in SaveCredentialsInput) (*Credentials, error) {
	in.ProjectURL = strings.TrimSpace(in.ProjectURL)
	in.AnonKey = strings.TrimSpace(in.AnonKey)
	in.ServiceKey = strings.TrimSpace(in.ServiceKey)

	if in.ProjectURL == "" || in.AnonKey == "" || in.ServiceKey == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}
	if u, err := url.Parse(in.ProjectURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, httperr.ErrBusiness("invalid_project_url")
	}
	if !strings.HasPrefix(in.ServiceKey, "postgres://") && !strings.HasPrefix(in.ServiceKey, "postgresql://") {
		return nil, httperr.ErrBusiness("invalid_service_key")
	}

	sealed, err := s.box.Seal(in.ServiceKey)
	if err != nil {
		return nil, err
	}

	row := models.ClientCredential{
		ProjectURL:           in.ProjectURL,
		AnonKey:              in.AnonKey,
		ServiceKeyCiphertext: sealed,
		ConnectionStatus:     models.ConnectionStatusUnknown,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ClientCredential{}).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		metrics.DeploymentActionsTotal.WithLabelValues(ActionSaveCredentials, "error").Inc()
		return nil, err
	}

	s.recordAction(actorID, ActionSaveCredentials, strconv.FormatUint(uint64(row.ID), 10))
	metrics.DeploymentActionsTotal.WithLabelValues(ActionSaveCredentials, "ok").Inc()
	return view(&row), nil
}

// GetCredentials returns the stored row without the sealed key. Reads are
// audited like every other deployment action.
func (s *Service) GetCredentials(ctx context.Context, actorID uuid.UUID) (*Credentials, error) {
	row, err := s.loadRow(ctx)
	if err != nil {
		return nil, err
	}

	s.recordAction(actorID, ActionGetCredentials, strconv.FormatUint(uint64(row.ID), 10))
	metrics.DeploymentActionsTotal.WithLabelValues(ActionGetCredentials, "ok").Inc()
	return view(row), nil
}

// TestConnection dials the remote project and probes for the pushed schema.
// An "undefined table" reply still counts as connected: the database
// answered, it just has no schema yet.
func (s *Service) TestConnection(ctx context.Context, actorID uuid.UUID) (*TestResult, error) {
	row, err := s.loadRow(ctx)
	if err != nil {
		return nil, err
	}

	dsn, err := s.box.Open(row.ServiceKeyCiphertext)
	if err != nil {
		return nil, err
	}

	status := s.probe(ctx, dsn)
	now := timezone.Now()
	row.ConnectionStatus = status
	row.LastTestedAt = &now
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}

	s.recordAction(actorID, ActionTestConnection, strconv.FormatUint(uint64(row.ID), 10))
	result := "ok"
	if status == models.ConnectionStatusFailed {
		result = "error"
	}
	metrics.DeploymentActionsTotal.WithLabelValues(ActionTestConnection, result).Inc()

	return &TestResult{Status: status, TestedAt: now.Format(time.RFC3339)}, nil
}

// InitializeDatabase replays the fixed schema against the remote project.
// Statement failures are logged and skipped; the push is best effort and a
// re-run converges.
func (s *Service) InitializeDatabase(ctx context.Context, actorID uuid.UUID) (*InitResult, error) {
	row, err := s.loadRow(ctx)
	if err != nil {
		return nil, err
	}
	if row.ConnectionStatus != models.ConnectionStatusConnected {
		return nil, httperr.ErrBusiness("not_connected")
	}

	dsn, err := s.box.Open(row.ServiceKeyCiphertext)
	if err != nil {
		return nil, err
	}

	conn, err := s.connect(ctx, dsn)
	if err != nil {
		metrics.DeploymentActionsTotal.WithLabelValues(ActionInitializeDatabase, "error").Inc()
		return nil, httperr.ErrBusiness("not_connected")
	}
	defer conn.Close(ctx)

	res := &InitResult{}
	for _, stmt := range Schema() {
		if err := conn.Exec(ctx, stmt); err != nil {
			res.StatementsFailed++
			log := logger.Get()
			log.Warn().Err(err).Msg("client deployment: statement failed, continuing")
			continue
		}
		res.StatementsRun++
	}

	now := timezone.Now()
	row.Initialized = true
	row.InitializedAt = &now
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}

	s.recordAction(actorID, ActionInitializeDatabase, strconv.FormatUint(uint64(row.ID), 10))
	metrics.DeploymentActionsTotal.WithLabelValues(ActionInitializeDatabase, "ok").Inc()
	return res, nil
}

// DeleteCredentials removes the stored row. Deleting nothing is not an error.
func (s *Service) DeleteCredentials(ctx context.Context, actorID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.ClientCredential{}).Error; err != nil {
		metrics.DeploymentActionsTotal.WithLabelValues(ActionDeleteCredentials, "error").Inc()
		return err
	}

	s.recordAction(actorID, ActionDeleteCredentials, "")
	metrics.DeploymentActionsTotal.WithLabelValues(ActionDeleteCredentials, "ok").Inc()
	return nil
}

// ======================================================
// HELPERS
// ======================================================

// probe dials the DSN and checks for the pushed schema. A missing table
// still proves reachability.
func (s *Service) probe(ctx context.Context, dsn string) string {
	conn, err := s.connect(ctx, dsn)
	if err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("client deployment: remote dial failed")
		return models.ConnectionStatusFailed
	}
	defer conn.Close(ctx)

	if err := conn.Exec(ctx, probeStatement); err != nil && !storage.IsUndefinedTable(err) {
		log := logger.Get()
		log.Warn().Err(err).Msg("client deployment: probe failed")
		return models.ConnectionStatusFailed
	}
	return models.ConnectionStatusConnected
}

func (s *Service) loadRow(ctx context.Context) (*models.ClientCredential, error) {
	var row models.ClientCredential
	if err := s.db.WithContext(ctx).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness("no_credentials")
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) recordAction(actorID uuid.UUID, action, entityID string) {
	if s.audit == nil {
		return
	}
	s.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "deployment_" + action,
		Entity:   "client_credential",
		EntityID: entityID,
	})
}

func view(row *models.ClientCredential) *Credentials {
	return &Credentials{
		ProjectURL:       row.ProjectURL,
		AnonKey:          row.AnonKey,
		ConnectionStatus: row.ConnectionStatus,
		LastTestedAt:     row.LastTestedAt,
		Initialized:      row.Initialized,
		InitializedAt:    row.InitializedAt,
	}
}
