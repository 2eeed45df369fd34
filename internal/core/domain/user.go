package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
)

// ErrMalformedUser marks a user payload that is not a JSON object at all.
var ErrMalformedUser = apperrors.NewValidation("MalformedUser", "malformed user payload")

// Role is a named bundle of permissions.
type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// User is the authenticated identity with its directly granted permissions
// and its roles.
type User struct {
	UserID      ID       `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []Role   `json:"roles"`
	Permissions []string `json:"permissions"`
	AuditFields
}

// RoleNames lists the user's role names in order.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole compares role names case-insensitively after trimming.
func (u User) HasRole(name string) bool {
	name = strings.TrimSpace(name)
	for _, r := range u.Roles {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			return true
		}
	}
	return false
}

type rawUser struct {
	UserID      ID              `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Roles       json.RawMessage `json:"roles"`
	Permissions json.RawMessage `json:"permissions"`
}

// UnmarshalJSON normalises the shapes the persistence service sends. Roles may
// be plain names or objects with a name and permissions; permissions may be
// plain identifiers or objects carrying a name or slug. Elements of any other
// shape are skipped.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw rawUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User{
		UserID:      raw.UserID,
		Name:        raw.Name,
		Email:       raw.Email,
		Roles:       parseRoles(raw.Roles),
		Permissions: parsePermissions(raw.Permissions),
	}
	return nil
}

func elements(data json.RawMessage) []json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

type namedObject struct {
	Name        *string         `json:"name"`
	Slug        *string         `json:"slug"`
	Permissions json.RawMessage `json:"permissions"`
}

func (o namedObject) label() string {
	if o.Name != nil && strings.TrimSpace(*o.Name) != "" {
		return strings.TrimSpace(*o.Name)
	}
	if o.Slug != nil {
		return strings.TrimSpace(*o.Slug)
	}
	return ""
}

// parseName reads a plain string or a {name}/{slug} object.
func parseName(item json.RawMessage) (string, namedObject, bool) {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, namedObject{}, s != ""
	}
	var obj namedObject
	if err := json.Unmarshal(item, &obj); err != nil {
		return "", namedObject{}, false
	}
	label := obj.label()
	return label, obj, label != ""
}

func parsePermissions(data json.RawMessage) []string {
	items := elements(data)
	perms := make([]string, 0, len(items))
	for _, item := range items {
		if name, _, ok := parseName(item); ok {
			perms = append(perms, name)
		}
	}
	return perms
}

func parseRoles(data json.RawMessage) []Role {
	items := elements(data)
	roles := make([]Role, 0, len(items))
	for _, item := range items {
		name, obj, ok := parseName(item)
		if !ok {
			continue
		}
		roles = append(roles, Role{Name: name, Permissions: parsePermissions(obj.Permissions)})
	}
	return roles
}

// DecodeUser parses a user payload, bare or wrapped as {"data": {...}}.
func DecodeUser(data []byte) (User, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return User{}, ErrMalformedUser
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return User{}, ErrMalformedUser.Wrap(err)
	}
	if d := bytes.TrimSpace(envelope.Data); len(d) > 0 && d[0] == '{' {
		data = d
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, ErrMalformedUser.Wrap(err)
	}
	return u, nil
}
