package auth

import (
	"github.com/google/uuid"

	"velan-store/internal/model"
)

// CanAccess is the single owner-or-admin capability check applied to every
// owner-scoped resource. Admins may act on any resource of a type; other
// users only on resources they own.
func CanAccess(actor *model.User, ownerID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == ownerID
}
