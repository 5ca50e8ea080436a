package services

import (
	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
)

// requireRole is the explicit access guard invoked at the top of each core
// operation. The caller's role arrives as a parameter, never from ambient
// state.
func requireRole(role domain.Role, allowed ...domain.Role) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return apperrors.ErrForbidden
}
