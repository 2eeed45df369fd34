package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"github.com/SscSPs/ledger_desk/internal/utils"
	"github.com/google/uuid"
)

// SessionConfig configures the session tokens handed to the shell.
type SessionConfig struct {
	Secret     string
	Issuer     string
	TTL        time.Duration
	DeviceName string
}

// SessionManager keeps one AuthSession per session id and mirrors each to a
// SessionStore so that sessions survive restarts.
type SessionManager struct {
	BaseService
	gateway  portsrepo.AuthGateway
	resolver *PermissionResolver
	store    portsrepo.SessionStore
	cfg      SessionConfig

	mu   sync.Mutex
	open map[string]*AuthSession
}

var _ portssvc.SessionSvcFacade = (*SessionManager)(nil)

// NewSessionManager creates a manager over gateway and store.
func NewSessionManager(gateway portsrepo.AuthGateway, resolver *PermissionResolver, store portsrepo.SessionStore, cfg SessionConfig) *SessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &SessionManager{
		gateway:  gateway,
		resolver: resolver,
		store:    store,
		cfg:      cfg,
		open:     make(map[string]*AuthSession),
	}
}

func (m *SessionManager) newSession(sessionID string) *AuthSession {
	sess := NewAuthSession(m.gateway, m.resolver, m.cfg.DeviceName)
	sess.OnEnd(func(ctx context.Context) { m.forget(ctx, sessionID) })
	return sess
}

func (m *SessionManager) forget(ctx context.Context, sessionID string) {
	m.mu.Lock()
	delete(m.open, sessionID)
	m.mu.Unlock()

	if err := m.store.DeleteSession(context.WithoutCancel(ctx), sessionID); err != nil {
		m.LogWarn(ctx, "Failed to delete stored session",
			slog.String("session_id", sessionID), slog.String("error", err.Error()))
	}
}

func (m *SessionManager) persist(ctx context.Context, sessionID string, sess *AuthSession) error {
	snap, ok := sess.Snapshot()
	if !ok {
		return apperrors.ErrNotAuthenticated
	}
	if err := m.store.SaveSession(ctx, sessionID, snap, m.cfg.TTL); err != nil {
		m.LogError(ctx, err, "Failed to store session", slog.String("session_id", sessionID))
		return apperrors.Internal("storing session", err)
	}
	return nil
}

// Login implements portssvc.SessionSvcFacade.
func (m *SessionManager) Login(ctx context.Context, creds portsrepo.Credentials) (*portssvc.LoginOutcome, error) {
	sessionID := uuid.NewString()
	sess := m.newSession(sessionID)

	if _, err := sess.Login(ctx, creds); err != nil {
		return nil, err
	}
	if err := m.persist(ctx, sessionID, sess); err != nil {
		sess.Logout(ctx)
		return nil, err
	}

	token, expiresAt, err := utils.GenerateJWT(sessionID, m.cfg.Secret, m.cfg.TTL, m.cfg.Issuer)
	if err != nil {
		m.LogError(ctx, err, "Failed to sign session token")
		sess.Logout(ctx)
		return nil, apperrors.Internal("signing session token", err)
	}

	m.mu.Lock()
	m.open[sessionID] = sess
	m.mu.Unlock()

	m.LogInfo(ctx, "Session opened", slog.String("session_id", sessionID), slog.String("user_id", sess.UserID().String()))
	return &portssvc.LoginOutcome{SessionID: sessionID, Token: token, ExpiresAt: expiresAt, Session: sess}, nil
}

// Authenticate implements portssvc.SessionSvcFacade.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (string, portssvc.Session, error) {
	claims, err := utils.ParseAndValidateJWT(token, m.cfg.Secret, m.cfg.Issuer)
	if err != nil {
		return "", nil, err
	}
	sessionID := claims.Subject
	sess, err := m.lookup(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	return sessionID, sess, nil
}

// lookup returns the open session, restoring it from the store if needed.
func (m *SessionManager) lookup(ctx context.Context, sessionID string) (*AuthSession, error) {
	m.mu.Lock()
	sess, ok := m.open[sessionID]
	m.mu.Unlock()
	if ok {
		if sess.IsAuthenticated() {
			return sess, nil
		}
		return nil, apperrors.ErrSessionExpired
	}

	snap, err := m.store.FindSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrSessionExpired
		}
		m.LogError(ctx, err, "Failed to load stored session", slog.String("session_id", sessionID))
		return nil, apperrors.Internal("loading session", err)
	}

	restored := m.newSession(sessionID)
	if err := restored.Restore(ctx, *snap); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.open[sessionID]; ok {
		return existing, nil
	}
	m.open[sessionID] = restored
	m.LogDebug(ctx, "Session restored from store", slog.String("session_id", sessionID))
	return restored, nil
}

// SelectBranch implements portssvc.SessionSvcFacade.
func (m *SessionManager) SelectBranch(ctx context.Context, sessionID string, branchID domain.ID) error {
	sess, err := m.lookup(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.SetBranch(branchID)
	return m.persist(ctx, sessionID, sess)
}

// Refresh implements portssvc.SessionSvcFacade.
func (m *SessionManager) Refresh(ctx context.Context, sessionID string) (portssvc.Session, error) {
	sess, err := m.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.ReloadUser(ctx); err != nil {
		return nil, err
	}
	if err := m.persist(ctx, sessionID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout implements portssvc.SessionSvcFacade.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) {
	sess, err := m.lookup(ctx, sessionID)
	if err != nil {
		m.forget(ctx, sessionID)
		return
	}
	sess.Logout(ctx)
	m.LogInfo(ctx, "Session closed", slog.String("session_id", sessionID))
}
