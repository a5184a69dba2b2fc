// Package session manages the two chained remote sessions of an extract run:
// the IRESS identity session (outer) and the IOS+ service session (inner).
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/logger"
	"github.com/guttosm/iosplus-extract/internal/remote"
)

const (
	// ApplicationID identifies this client to the IRESS session service.
	ApplicationID = "iosplus-extract"
	// ServiceName is the service requested by ServiceSessionStart.
	ServiceName = "IOSPLUS"
)

var (
	ErrNoOuterSession = errors.New("no identity session")
	ErrEmptySession   = errors.New("session response carried no session key")
)

// Credentials identify the user and the IOS+ server of a run.
type Credentials struct {
	UserName         string
	CompanyName      string
	Password         string
	Server           string
	ApplicationLabel string
}

// Result is the outcome of a login attempt.
type Result struct {
	Session models.Session
	Err     error
}

// OK reports whether the login produced a usable session.
func (r Result) OK() bool { return r.Err == nil && r.Session.Valid() }

// Manager opens and closes sessions against a remote.SessionClient.
type Manager struct {
	client  remote.SessionClient
	creds   Credentials
	timeout int
	newID   func() string
}

// NewManager builds a Manager.
//
// Parameters:
//   - client: remote session operations
//   - creds: user, company, password and server
//   - timeout: per-request timeout sent in the request header (zero omits it)
func NewManager(client remote.SessionClient, creds Credentials, timeout time.Duration) *Manager {
	return &Manager{
		client:  client,
		creds:   creds,
		timeout: int(timeout / time.Second),
		newID:   uuid.NewString,
	}
}

func (m *Manager) header(id string) remote.Header {
	return remote.Header{Updates: false, RequestID: id, Timeout: m.timeout}
}

// LoginOuter opens the IRESS identity session.
//
// Behavior:
//   - Sends user, company, password and the fixed application id.
//   - A remote error, or a response without a session key, is logged and
//     returned as a failed Result. Nothing is retried.
func (m *Manager) LoginOuter(ctx context.Context) Result {
	id := m.newID()
	log := logger.L().With().Str("request_id", id).Str("user", m.creds.UserName).Str("company", m.creds.CompanyName).Logger()
	log.Info().Msg("iress session start")

	resp, err := m.client.IRESSSessionStart(ctx, remote.IRESSSessionStartParams{
		UserName:         m.creds.UserName,
		CompanyName:      m.creds.CompanyName,
		Password:         m.creds.Password,
		ApplicationID:    ApplicationID,
		ApplicationLabel: m.creds.ApplicationLabel,
	}, m.header(id))
	if err != nil {
		log.Error().Err(err).Msg("iress session start failed")
		return Result{Err: fmt.Errorf("iress session start: %w", err)}
	}
	if resp == nil || len(resp.Rows) == 0 || resp.Rows[0].IRESSSessionKey == "" {
		log.Error().Err(ErrEmptySession).Msg("iress session start failed")
		return Result{Err: fmt.Errorf("iress session start: %w", ErrEmptySession)}
	}

	log.Info().Msg("iress session established")
	return Result{Session: models.Session(resp.Rows[0].IRESSSessionKey)}
}

// LoginInner opens the IOS+ service session on top of outer.
//
// Behavior:
//   - Requires a valid outer session (ErrNoOuterSession otherwise).
//   - On failure the outer session is logged out once before returning, so
//     callers never need to clean up after a failed inner login. The logout
//     runs even when ctx has been cancelled.
func (m *Manager) LoginInner(ctx context.Context, outer models.Session) Result {
	if !outer.Valid() {
		return Result{Err: ErrNoOuterSession}
	}

	id := m.newID()
	log := logger.L().With().Str("request_id", id).Str("server", m.creds.Server).Logger()
	log.Info().Msg("service session start")

	resp, err := m.client.ServiceSessionStart(ctx, remote.ServiceSessionStartParams{
		Server:          m.creds.Server,
		Service:         ServiceName,
		IRESSSessionKey: string(outer),
	}, m.header(id))
	if err == nil && (resp == nil || len(resp.Rows) == 0 || resp.Rows[0].ServiceSessionKey == "") {
		err = ErrEmptySession
	}
	if err != nil {
		log.Error().Err(err).Msg("service session start failed")
		if lerr := m.LogoutOuter(context.WithoutCancel(ctx), outer); lerr != nil {
			log.Warn().Err(lerr).Msg("iress session cleanup failed")
		}
		return Result{Err: fmt.Errorf("service session start: %w", err)}
	}

	log.Info().Msg("service session established")
	return Result{Session: models.Session(resp.Rows[0].ServiceSessionKey)}
}

// LogoutInner closes the IOS+ service session. An empty session is skipped.
func (m *Manager) LogoutInner(ctx context.Context, s models.Session) error {
	if !s.Valid() {
		return nil
	}
	id := m.newID()
	h := m.header(id)
	h.ServiceSessionKey = string(s)
	if err := m.client.ServiceSessionEnd(ctx, h); err != nil {
		logger.L().Error().Str("request_id", id).Err(err).Msg("service session end failed")
		return fmt.Errorf("service session end: %w", err)
	}
	logger.L().Info().Str("request_id", id).Msg("service session ended")
	return nil
}

// LogoutOuter closes the IRESS identity session. An empty session is skipped.
func (m *Manager) LogoutOuter(ctx context.Context, s models.Session) error {
	if !s.Valid() {
		return nil
	}
	id := m.newID()
	h := m.header(id)
	h.SessionKey = string(s)
	if err := m.client.IRESSSessionEnd(ctx, h); err != nil {
		logger.L().Error().Str("request_id", id).Err(err).Msg("iress session end failed")
		return fmt.Errorf("iress session end: %w", err)
	}
	logger.L().Info().Str("request_id", id).Msg("iress session ended")
	return nil
}
