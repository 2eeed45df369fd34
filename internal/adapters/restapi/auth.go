package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
)

// AuthGateway signs users in against the persistence service.
type AuthGateway struct {
	client *Client
}

var _ portsrepo.AuthGateway = (*AuthGateway)(nil)

// NewAuthGateway creates the gateway.
func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{client: c}
}

type loginBody struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

type loginReply struct {
	Token       string          `json:"token"`
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

// Login posts the credentials. A 401 or 422 means the credentials were
// rejected; it never ends an existing session.
func (g *AuthGateway) Login(ctx context.Context, creds portsrepo.Credentials) (portsrepo.LoginResult, error) {
	var reply loginReply
	err := g.client.do(ctx, request{
		method:    http.MethodPost,
		path:      "/login",
		body:      loginBody{Email: creds.Email, Password: creds.Password, DeviceName: creds.DeviceName},
		anonymous: true,
	}, &reply)
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrValidation):
		return portsrepo.LoginResult{}, apperrors.ErrInvalidCredentials
	case err != nil:
		return portsrepo.LoginResult{}, err
	}

	result := portsrepo.LoginResult{Token: reply.Token}
	if result.Token == "" {
		result.Token = reply.AccessToken
	}
	if raw := bytes.TrimSpace(reply.User); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		user, err := domain.DecodeUser(raw)
		if err != nil {
			return portsrepo.LoginResult{}, err
		}
		result.User = &user
	}
	return result, nil
}

// CurrentUser fetches GET /user with token.
func (g *AuthGateway) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var raw json.RawMessage
	if err := g.client.do(ctx, request{method: http.MethodGet, path: "/user", token: token}, &raw); err != nil {
		return nil, err
	}
	user, err := domain.DecodeUser(raw)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes token.
func (g *AuthGateway) Logout(ctx context.Context, token string) error {
	return g.client.do(ctx, request{method: http.MethodPost, path: "/logout", token: token}, nil)
}
