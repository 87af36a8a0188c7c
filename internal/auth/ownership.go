package auth

import "github.com/openboard-dev/openboard/internal/model"

// Owned is any stored resource with an owning account. Ownership is
// fixed at creation and never transfers.
type Owned interface {
	OwnerID() int64
}

// AuthorizeMutation permits an update or delete only when the
// principal is the resource's owner. It applies identically to every
// owned resource type. Callers must resolve the resource first, so a
// missing resource surfaces as not-found rather than forbidden.
func AuthorizeMutation(p model.Principal, resource Owned) error {
	if resource.OwnerID() != p.UserID {
		return ErrForbidden
	}
	return nil
}
