package auth

import (
	"github.com/tastebook/tastebook/internal/utils"
)

// Owned is implemented by resources bound to a single owning user.
type Owned interface {
	Owner() int64
}

// RequireOwner decides whether a mutation on an owned resource is permitted.
// It is a pure binary check: the mutation is allowed iff the caller is the
// owner. There is no role hierarchy and no delegation. A denial is a 403
// "not the owner" error, deliberately distinct from the 401 returned for a
// missing or invalid token.
func RequireOwner(ownerID, callerID int64) error {
	if ownerID != callerID {
		return utils.NewNotOwnerError()
	}
	return nil
}

// RequireOwnerOf is a convenience wrapper over RequireOwner for resources
// implementing Owned.
func RequireOwnerOf(resource Owned, callerID int64) error {
	return RequireOwner(resource.Owner(), callerID)
}
