package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_desk/internal/core/ports/services"
	"golang.org/x/oauth2"
)

var errCredentialsRequired = apperrors.NewValidation("CredentialsRequired", "email and password are required")

// AuthSession owns the token, user and permission set of one signed-in user.
// It is safe for concurrent use. The three values are always replaced
// together, never merged.
type AuthSession struct {
	BaseService
	gateway    portsrepo.AuthGateway
	resolver   *PermissionResolver
	deviceName string

	mu         sync.RWMutex
	generation uint64
	token      string
	user       *domain.User
	perms      domain.PermissionSet
	branchID   domain.ID
	createdAt  time.Time
	onEnd      func(ctx context.Context)
}

var (
	_ portssvc.Session   = (*AuthSession)(nil)
	_ oauth2.TokenSource = (*AuthSession)(nil)
)

// NewAuthSession creates a signed-out session.
func NewAuthSession(gateway portsrepo.AuthGateway, resolver *PermissionResolver, deviceName string) *AuthSession {
	if resolver == nil {
		resolver = NewPermissionResolver("", nil)
	}
	return &AuthSession{gateway: gateway, resolver: resolver, deviceName: deviceName}
}

// OnEnd registers fn to run after the session is cleared by Logout or
// HandleUnauthorized.
func (s *AuthSession) OnEnd(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = fn
}

// Login authenticates and replaces the session state. When the backend
// returns a token without a user, the user is fetched with that token. A
// failure at any step leaves the session as it was. A Logout that lands while
// the login is in flight wins: the login result is discarded.
func (s *AuthSession) Login(ctx context.Context, creds portsrepo.Credentials) (*domain.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, errCredentialsRequired
	}
	if creds.DeviceName == "" {
		creds.DeviceName = s.deviceName
	}

	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	result, err := s.gateway.Login(ctx, creds)
	if err != nil {
		s.logUnexpected(ctx, err, "Login failed", slog.String("email", creds.Email))
		return nil, err
	}
	if result.Token == "" {
		return nil, apperrors.ErrServerFailure.WithDetail("login response carried no token")
	}

	user := result.User
	if user == nil {
		user, err = s.gateway.CurrentUser(ctx, result.Token)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch user after login", slog.String("email", creds.Email))
			return nil, err
		}
	}
	perms := s.resolver.Derive(ctx, *user)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		s.LogInfo(ctx, "Discarding login superseded by logout", slog.String("email", creds.Email))
		if err := s.gateway.Logout(context.WithoutCancel(ctx), result.Token); err != nil {
			s.LogWarn(ctx, "Failed to revoke superseded login token", slog.String("error", err.Error()))
		}
		return nil, apperrors.ErrLoginSuperseded
	}
	s.generation++
	s.token = result.Token
	stored := *user
	s.user = &stored
	s.perms = perms
	s.createdAt = time.Now()
	s.mu.Unlock()

	s.LogInfo(ctx, "User signed in",
		slog.String("user_id", user.UserID.String()),
		slog.Int("permissions", perms.Len()),
		slog.Bool("admin_fallback", perms.AdminFallback()))
	return &stored, nil
}

// clear resets the session and returns the token it held and the end hook.
func (s *AuthSession) clear() (string, func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.token
	s.generation++
	s.token = ""
	s.user = nil
	s.perms = domain.PermissionSet{}
	s.branchID = ""
	return token, s.onEnd
}

// Logout clears the session, then revokes the token server-side. A failed
// revocation is logged and otherwise ignored.
func (s *AuthSession) Logout(ctx context.Context) {
	token, onEnd := s.clear()
	if token != "" && s.gateway != nil {
		if err := s.gateway.Logout(ctx, token); err != nil {
			s.LogWarn(ctx, "Server-side logout failed, session cleared locally", slog.String("error", err.Error()))
		}
	}
	if onEnd != nil {
		onEnd(ctx)
	}
}

// HandleUnauthorized clears the session after the backend rejected its token.
func (s *AuthSession) HandleUnauthorized(ctx context.Context) {
	token, onEnd := s.clear()
	if token == "" {
		return
	}
	s.LogWarn(ctx, "Backend rejected the session token, signing out")
	if onEnd != nil {
		onEnd(ctx)
	}
}

// RefreshUser replaces the user record and re-derives permissions.
func (s *AuthSession) RefreshUser(ctx context.Context, user domain.User) error {
	perms := s.resolver.Derive(ctx, user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return apperrors.ErrNotAuthenticated
	}
	s.user = &user
	s.perms = perms
	return nil
}

// ReloadUser fetches the current user from the backend and applies it with
// RefreshUser. A rejected token signs the session out.
func (s *AuthSession) ReloadUser(ctx context.Context) (*domain.User, error) {
	s.mu.RLock()
	token, gen := s.token, s.generation
	s.mu.RUnlock()
	if token == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	user, err := s.gateway.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionExpired) {
			s.HandleUnauthorized(ctx)
		}
		return nil, err
	}

	s.mu.RLock()
	stale := s.generation != gen
	s.mu.RUnlock()
	if stale {
		return nil, apperrors.ErrLoginSuperseded
	}
	if err := s.RefreshUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// Restore reinstates a persisted session. Permissions are derived again.
func (s *AuthSession) Restore(ctx context.Context, snap portsrepo.SessionSnapshot) error {
	if snap.Token == "" {
		return apperrors.ErrNotAuthenticated
	}
	perms := s.resolver.Derive(ctx, snap.User)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.token = snap.Token
	user := snap.User
	s.user = &user
	s.perms = perms
	s.branchID = snap.BranchID
	s.createdAt = snap.CreatedAt
	return nil
}

// Snapshot returns the persistable state, or false when signed out.
func (s *AuthSession) Snapshot() (portsrepo.SessionSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.user == nil {
		return portsrepo.SessionSnapshot{}, false
	}
	return portsrepo.SessionSnapshot{
		Token:     s.token,
		User:      *s.user,
		BranchID:  s.branchID,
		CreatedAt: s.createdAt,
	}, true
}

// IsAuthenticated reports whether the session holds a token.
func (s *AuthSession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token implements oauth2.TokenSource over the session token.
func (s *AuthSession) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// User returns a copy of the signed-in user.
func (s *AuthSession) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// UserID returns the signed-in user's id, empty when signed out.
func (s *AuthSession) UserID() domain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.UserID
}

// Permissions returns the current permission set.
func (s *AuthSession) Permissions() domain.PermissionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.perms
}

// HasPermission reports whether the session grants permission.
func (s *AuthSession) HasPermission(permission string) bool {
	return s.Permissions().Has(permission)
}

// HasAnyPermission reports whether the session grants any of permissions.
func (s *AuthSession) HasAnyPermission(permissions ...string) bool {
	return s.Permissions().HasAny(permissions...)
}

// HasAllPermissions reports whether the session grants all of permissions.
func (s *AuthSession) HasAllPermissions(permissions ...string) bool {
	return s.Permissions().HasAll(permissions...)
}

// SetBranch changes the active branch scope.
func (s *AuthSession) SetBranch(branchID domain.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branchID = branchID
}

// BranchID returns the active branch scope.
func (s *AuthSession) BranchID() domain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branchID
}

// Caller returns the credentials repository calls should carry.
func (s *AuthSession) Caller() portsrepo.Caller {
	return portsrepo.Caller{
		Tokens:         s,
		BranchID:       s.BranchID(),
		OnUnauthorized: s.HandleUnauthorized,
	}
}
