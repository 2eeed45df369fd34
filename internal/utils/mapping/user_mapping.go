package mapping

import (
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/SscSPs/ledger_desk/internal/models"
)

// ToDomainUser converts a model User and its roles to a domain User.
// The password hash never leaves the repository.
func ToDomainUser(m models.User, roles []models.Role) domain.User {
	u := domain.User{
		UserID:      domain.ID(m.UserID),
		Name:        m.Name,
		Email:       m.Email,
		Roles:       make([]domain.Role, len(roles)),
		Permissions: append([]string(nil), m.Permissions...),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	for i, r := range roles {
		u.Roles[i] = domain.Role{Name: r.Name, Permissions: append([]string(nil), r.Permissions...)}
	}
	return u
}
