package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_desk/internal/core/services"
	"github.com/SscSPs/ledger_desk/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SessionManagerTestSuite struct {
	suite.Suite
	gateway *MockAuthGateway
	store   *MockSessionStore
	manager *services.SessionManager
	ctx     context.Context
	cfg     services.SessionConfig
	user    domain.User
}

func (s *SessionManagerTestSuite) SetupTest() {
	s.gateway = new(MockAuthGateway)
	s.store = new(MockSessionStore)
	s.cfg = services.SessionConfig{Secret: "secret", Issuer: "ledger-desk", TTL: time.Hour, DeviceName: "desk"}
	s.manager = services.NewSessionManager(s.gateway, services.NewPermissionResolver("", nil), s.store, s.cfg)
	s.ctx = context.Background()
	s.user = domain.User{UserID: "9", Permissions: []string{"accounts.view"}}
}

func (s *SessionManagerTestSuite) login() (string, string) {
	s.gateway.On("Login", mock.Anything, mock.Anything).Return(portsrepo.LoginResult{Token: "upstream", User: &s.user}, nil).Once()
	s.store.On("SaveSession", mock.Anything, mock.AnythingOfType("string"), mock.Anything, time.Hour).Return(nil).Once()

	out, err := s.manager.Login(s.ctx, portsrepo.Credentials{Email: "a@b.c", Password: "pw"})
	s.Require().NoError(err)
	return out.SessionID, out.Token
}

func (s *SessionManagerTestSuite) TestLoginAndAuthenticate() {
	sessionID, token := s.login()

	gotID, sess, err := s.manager.Authenticate(s.ctx, token)

	s.Require().NoError(err)
	s.Equal(sessionID, gotID)
	s.True(sess.HasPermission("accounts.view"))
	s.store.AssertExpectations(s.T())
}

func (s *SessionManagerTestSuite) TestAuthenticate_RestoresFromStore() {
	token, _, err := utils.GenerateJWT("stored-id", s.cfg.Secret, time.Hour, s.cfg.Issuer)
	s.Require().NoError(err)
	snap := &portsrepo.SessionSnapshot{Token: "upstream", User: s.user, BranchID: "2", CreatedAt: time.Now()}
	s.store.On("FindSession", mock.Anything, "stored-id").Return(snap, nil).Once()

	_, sess, err := s.manager.Authenticate(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(domain.ID("2"), sess.BranchID())
	s.True(sess.HasPermission("accounts.view"))

	_, _, err = s.manager.Authenticate(s.ctx, token)
	s.Require().NoError(err)
	s.store.AssertNumberOfCalls(s.T(), "FindSession", 1)
}

func (s *SessionManagerTestSuite) TestAuthenticate_UnknownSession() {
	token, _, err := utils.GenerateJWT("gone", s.cfg.Secret, time.Hour, s.cfg.Issuer)
	s.Require().NoError(err)
	s.store.On("FindSession", mock.Anything, "gone").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err = s.manager.Authenticate(s.ctx, token)
	s.ErrorIs(err, apperrors.ErrSessionExpired)
}

func (s *SessionManagerTestSuite) TestAuthenticate_BadToken() {
	_, _, err := s.manager.Authenticate(s.ctx, "garbage")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *SessionManagerTestSuite) TestLogoutForgetsSession() {
	sessionID, token := s.login()
	s.gateway.On("Logout", mock.Anything, "upstream").Return(nil).Once()
	s.store.On("DeleteSession", mock.Anything, sessionID).Return(nil).Once()
	s.store.On("FindSession", mock.Anything, sessionID).Return(nil, apperrors.ErrNotFound).Once()

	s.manager.Logout(s.ctx, sessionID)

	_, _, err := s.manager.Authenticate(s.ctx, token)
	s.ErrorIs(err, apperrors.ErrSessionExpired)
	s.gateway.AssertExpectations(s.T())
	s.store.AssertExpectations(s.T())
}

func (s *SessionManagerTestSuite) TestUnauthorizedUpstreamForgetsSession() {
	sessionID, token := s.login()
	s.store.On("DeleteSession", mock.Anything, sessionID).Return(nil).Once()
	s.store.On("FindSession", mock.Anything, sessionID).Return(nil, apperrors.ErrNotFound).Once()

	_, sess, err := s.manager.Authenticate(s.ctx, token)
	s.Require().NoError(err)
	sess.Caller().OnUnauthorized(s.ctx)

	_, _, err = s.manager.Authenticate(s.ctx, token)
	s.ErrorIs(err, apperrors.ErrSessionExpired)
	s.gateway.AssertNotCalled(s.T(), "Logout", mock.Anything, mock.Anything)
}

func (s *SessionManagerTestSuite) TestSelectBranchPersists() {
	sessionID, _ := s.login()
	s.store.On("SaveSession", mock.Anything, sessionID,
		mock.MatchedBy(func(snap portsrepo.SessionSnapshot) bool { return snap.BranchID == "4" }),
		time.Hour).Return(nil).Once()

	s.Require().NoError(s.manager.SelectBranch(s.ctx, sessionID, "4"))
	s.store.AssertExpectations(s.T())
}

func (s *SessionManagerTestSuite) TestRefreshReloadsUser() {
	sessionID, _ := s.login()
	updated := s.user
	updated.Permissions = []string{"vouchers.view"}
	s.gateway.On("CurrentUser", mock.Anything, "upstream").Return(&updated, nil).Once()
	s.store.On("SaveSession", mock.Anything, sessionID, mock.Anything, time.Hour).Return(nil).Once()

	sess, err := s.manager.Refresh(s.ctx, sessionID)

	s.Require().NoError(err)
	s.True(sess.HasPermission("vouchers.view"))
	s.False(sess.HasPermission("accounts.view"))
}

func TestSessionManagerTestSuite(t *testing.T) {
	suite.Run(t, new(SessionManagerTestSuite))
}
