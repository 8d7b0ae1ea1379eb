// internal/models/actor.go
package models

import "github.com/google/uuid"

// Actor is the authenticated identity-with-role fact supplied by the
// auth boundary. Every lifecycle call takes one explicitly; the engine
// holds no session state of its own.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}

func (a Actor) IsBuyer() bool {
	return a.Role == UserRoleBuyer
}

func (a Actor) IsSupplier() bool {
	return a.Role == UserRoleSupplier
}
