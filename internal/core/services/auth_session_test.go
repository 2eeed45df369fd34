package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_desk/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func TestPermissionResolver_Derive(t *testing.T) {
	resolver := services.NewPermissionResolver("", nil)
	ctx := context.Background()

	t.Run("cashier role", func(t *testing.T) {
		user := domain.User{UserID: "7", Roles: []domain.Role{{Name: "cashier", Permissions: []string{"invoices.create"}}}}
		set := resolver.Derive(ctx, user)
		assert.Equal(t, []string{"invoices.create"}, set.List())
		assert.True(t, set.Has("invoices.create"))
		assert.False(t, set.HasAny("accounts.view"))
		assert.False(t, set.AdminFallback())
	})

	t.Run("admin without permissions", func(t *testing.T) {
		user := domain.User{UserID: "1", Roles: []domain.Role{{Name: "Admin"}}}
		set := resolver.Derive(ctx, user)
		assert.Equal(t, len(domain.AllPermissions), set.Len())
		assert.True(t, set.HasAll(domain.AllPermissions...))
		assert.True(t, set.AdminFallback())
	})

	t.Run("admin with explicit permissions keeps them", func(t *testing.T) {
		user := domain.User{Roles: []domain.Role{{Name: "admin", Permissions: []string{"accounts.view"}}}}
		set := resolver.Derive(ctx, user)
		assert.Equal(t, []string{"accounts.view"}, set.List())
		assert.False(t, set.AdminFallback())
	})

	t.Run("no roles no permissions", func(t *testing.T) {
		assert.True(t, resolver.Derive(ctx, domain.User{}).IsEmpty())
	})

	t.Run("union is deduplicated and idempotent", func(t *testing.T) {
		user := domain.User{
			Permissions: []string{"accounts.view", " accounts.view "},
			Roles: []domain.Role{
				{Name: "a", Permissions: []string{"accounts.view", "vouchers.view"}},
				{Name: "b", Permissions: []string{"vouchers.view"}},
			},
		}
		first := resolver.Derive(ctx, user)
		second := resolver.Derive(ctx, user)
		assert.Equal(t, []string{"accounts.view", "vouchers.view"}, first.List())
		assert.True(t, first.Equal(second))
	})

	t.Run("custom admin role", func(t *testing.T) {
		custom := services.NewPermissionResolver("owner", []string{"accounts.view"})
		set := custom.Derive(ctx, domain.User{Roles: []domain.Role{{Name: "owner"}}})
		assert.Equal(t, []string{"accounts.view"}, set.List())
		assert.True(t, custom.Derive(ctx, domain.User{Roles: []domain.Role{{Name: "admin"}}}).IsEmpty())
	})
}

type AuthSessionTestSuite struct {
	suite.Suite
	gateway *MockAuthGateway
	session *services.AuthSession
	ctx     context.Context
	creds   portsrepo.Credentials
	user    domain.User
}

func (s *AuthSessionTestSuite) SetupTest() {
	s.gateway = new(MockAuthGateway)
	s.session = services.NewAuthSession(s.gateway, services.NewPermissionResolver("", nil), "ledger-desk")
	s.ctx = context.Background()
	s.creds = portsrepo.Credentials{Email: "a@b.c", Password: "pw"}
	s.user = domain.User{
		UserID: "42",
		Name:   "Accountant",
		Roles:  []domain.Role{{Name: "accountant", Permissions: []string{"accounts.view", "journal_entries.view"}}},
	}
}

func (s *AuthSessionTestSuite) expectLogin(token string, user *domain.User) {
	withDevice := s.creds
	withDevice.DeviceName = "ledger-desk"
	s.gateway.On("Login", mock.Anything, withDevice).Return(portsrepo.LoginResult{Token: token, User: user}, nil).Once()
}

func (s *AuthSessionTestSuite) TestLogin_Success() {
	s.expectLogin("tok", &s.user)

	user, err := s.session.Login(s.ctx, s.creds)

	s.Require().NoError(err)
	s.Equal(domain.ID("42"), user.UserID)
	s.True(s.session.IsAuthenticated())
	s.True(s.session.HasPermission("accounts.view"))
	s.True(s.session.HasAllPermissions("accounts.view", "journal_entries.view"))
	s.False(s.session.HasAnyPermission("vouchers.create"))
	tok, err := s.session.Token()
	s.Require().NoError(err)
	s.Equal("tok", tok.AccessToken)
	s.gateway.AssertExpectations(s.T())
}

func (s *AuthSessionTestSuite) TestLogin_FetchesUserWhenMissing() {
	s.expectLogin("tok", nil)
	s.gateway.On("CurrentUser", mock.Anything, "tok").Return(&s.user, nil).Once()

	user, err := s.session.Login(s.ctx, s.creds)

	s.Require().NoError(err)
	s.Equal("Accountant", user.Name)
	s.Equal(domain.ID("42"), s.session.UserID())
	s.gateway.AssertExpectations(s.T())
}

func (s *AuthSessionTestSuite) TestLogin_UserFetchFailureLeavesNoState() {
	s.expectLogin("tok", nil)
	s.gateway.On("CurrentUser", mock.Anything, "tok").Return(nil, apperrors.ErrNetworkFailure).Once()

	_, err := s.session.Login(s.ctx, s.creds)

	s.ErrorIs(err, apperrors.ErrNetworkFailure)
	s.False(s.session.IsAuthenticated())
	_, ok := s.session.User()
	s.False(ok)
	s.True(s.session.Permissions().IsEmpty())
}

func (s *AuthSessionTestSuite) TestLogin_InvalidCredentials() {
	s.gateway.On("Login", mock.Anything, mock.Anything).Return(portsrepo.LoginResult{}, apperrors.ErrInvalidCredentials).Once()

	_, err := s.session.Login(s.ctx, s.creds)

	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.False(s.session.IsAuthenticated())
}

func (s *AuthSessionTestSuite) TestLogin_RejectsEmptyCredentials() {
	_, err := s.session.Login(s.ctx, portsrepo.Credentials{Email: "  "})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.gateway.AssertNotCalled(s.T(), "Login", mock.Anything, mock.Anything)
}

func (s *AuthSessionTestSuite) TestLogin_EmptyTokenIsServerFailure() {
	s.expectLogin("", &s.user)
	_, err := s.session.Login(s.ctx, s.creds)
	s.ErrorIs(err, apperrors.ErrServerFailure)
	s.False(s.session.IsAuthenticated())
}

func (s *AuthSessionTestSuite) TestLogin_SupersededByLogout() {
	withDevice := s.creds
	withDevice.DeviceName = "ledger-desk"
	s.gateway.On("Login", mock.Anything, withDevice).
		Run(func(mock.Arguments) { s.session.Logout(s.ctx) }).
		Return(portsrepo.LoginResult{Token: "late", User: &s.user}, nil).Once()
	s.gateway.On("Logout", mock.Anything, "late").Return(nil).Once()

	_, err := s.session.Login(s.ctx, s.creds)

	s.ErrorIs(err, apperrors.ErrLoginSuperseded)
	s.False(s.session.IsAuthenticated())
	s.gateway.AssertExpectations(s.T())
}

func (s *AuthSessionTestSuite) TestLogout_ClearsEvenWhenServerFails() {
	s.expectLogin("tok", &s.user)
	_, err := s.session.Login(s.ctx, s.creds)
	s.Require().NoError(err)

	ended := false
	s.session.OnEnd(func(context.Context) { ended = true })
	s.gateway.On("Logout", mock.Anything, "tok").Return(errors.New("connection reset")).Once()

	s.session.Logout(s.ctx)

	s.False(s.session.IsAuthenticated())
	s.True(s.session.Permissions().IsEmpty())
	s.True(ended)
	_, err = s.session.Token()
	s.ErrorIs(err, apperrors.ErrNotAuthenticated)
	s.gateway.AssertExpectations(s.T())
}

func (s *AuthSessionTestSuite) TestHandleUnauthorized_ClearsWithoutServerCall() {
	s.expectLogin("tok", &s.user)
	_, err := s.session.Login(s.ctx, s.creds)
	s.Require().NoError(err)

	s.session.SetBranch("3")
	s.session.HandleUnauthorized(s.ctx)

	s.False(s.session.IsAuthenticated())
	s.Empty(s.session.BranchID())
	s.gateway.AssertNotCalled(s.T(), "Logout", mock.Anything, mock.Anything)
}

func (s *AuthSessionTestSuite) TestReloadUser_RederivesPermissions() {
	s.expectLogin("tok", &s.user)
	_, err := s.session.Login(s.ctx, s.creds)
	s.Require().NoError(err)

	promoted := s.user
	promoted.Roles = []domain.Role{{Name: "manager", Permissions: []string{"vouchers.create"}}}
	s.gateway.On("CurrentUser", mock.Anything, "tok").Return(&promoted, nil).Once()

	_, err = s.session.ReloadUser(s.ctx)

	s.Require().NoError(err)
	s.True(s.session.HasPermission("vouchers.create"))
	s.False(s.session.HasPermission("accounts.view"))
}

func (s *AuthSessionTestSuite) TestReloadUser_ExpiredTokenSignsOut() {
	s.expectLogin("tok", &s.user)
	_, err := s.session.Login(s.ctx, s.creds)
	s.Require().NoError(err)
	s.gateway.On("CurrentUser", mock.Anything, "tok").Return(nil, apperrors.ErrSessionExpired).Once()

	_, err = s.session.ReloadUser(s.ctx)

	s.ErrorIs(err, apperrors.ErrSessionExpired)
	s.False(s.session.IsAuthenticated())
}

func (s *AuthSessionTestSuite) TestRefreshUser_RequiresSession() {
	s.ErrorIs(s.session.RefreshUser(s.ctx, s.user), apperrors.ErrNotAuthenticated)
}

func (s *AuthSessionTestSuite) TestSnapshotRestore() {
	s.expectLogin("tok", &s.user)
	_, err := s.session.Login(s.ctx, s.creds)
	s.Require().NoError(err)
	s.session.SetBranch("5")

	snap, ok := s.session.Snapshot()
	s.Require().True(ok)

	restored := services.NewAuthSession(s.gateway, nil, "")
	s.Require().NoError(restored.Restore(s.ctx, snap))
	s.True(restored.Permissions().Equal(s.session.Permissions()))
	s.Equal(domain.ID("5"), restored.Caller().BranchID)

	_, ok = services.NewAuthSession(s.gateway, nil, "").Snapshot()
	s.False(ok)
}

func TestAuthSessionTestSuite(t *testing.T) {
	suite.Run(t, new(AuthSessionTestSuite))
}
