package service

import "github.com/google/uuid"

// isOwner is the ownership guard: a resource is visible and mutable only to
// the user it belongs to. Identity is strict uuid equality.
func isOwner(ownerID, userID uuid.UUID) bool {
	return ownerID == userID
}

// guardOwner applies the two-tier access outcome: a missing resource is
// reported as ErrNotFound by the caller before this runs; a present but
// foreign resource yields ErrForbidden. The distinction is deliberate and
// mirrored in the HTTP layer as 404 vs 403.
func guardOwner(ownerID, userID uuid.UUID) error {
	if !isOwner(ownerID, userID) {
		return ErrForbidden
	}
	return nil
}
