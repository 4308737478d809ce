package access

import (
	"net/http"

	apperrors "reviewhub/internal/errors"
)

// Action is the operation a request performs on a resource.
type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Safe reports whether the action only reads.
func (a Action) Safe() bool {
	return a == ActionList || a == ActionRetrieve
}

// ActionForMethod maps an HTTP method onto an action. Collection routes pass
// collection=true so GET means list and POST means create.
func ActionForMethod(method string, collection bool) Action {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	}
	if collection {
		return ActionList
	}
	return ActionRetrieve
}

// Policy decides whether an identity may perform an action. Allow is the
// coarse check made before any object is loaded; AllowObject is the
// fine-grained check against a loaded object owned by ownerID.
type Policy interface {
	Allow(id Identity, action Action) error
	AllowObject(id Identity, action Action, ownerID uint) error
}

var (
	// CatalogPolicy guards categories, genres and titles: reads are open,
	// writes need admin.
	CatalogPolicy Policy = adminOrReadOnly{}
	// AuthoredPolicy guards reviews and comments: reads are open, creating
	// needs any identity, changing an existing entry needs its author, a
	// moderator or an admin.
	AuthoredPolicy Policy = authorOrStaffOrReadOnly{}
	// AdminPolicy guards full user administration.
	AdminPolicy Policy = adminOnly{}
	// SelfPolicy guards the caller's own profile.
	SelfPolicy Policy = authenticatedOnly{}
)

// deny picks the rejection matching the caller: no identity means
// authentication is required, otherwise the privilege is insufficient.
func deny(id Identity, message string) error {
	if !id.Authenticated() {
		return apperrors.Unauthenticated()
	}
	return apperrors.Forbidden(message)
}

type adminOrReadOnly struct{}

func (adminOrReadOnly) Allow(id Identity, action Action) error {
	if action.Safe() || id.IsAdmin() {
		return nil
	}
	return deny(id, "only administrators may modify the catalog")
}

func (p adminOrReadOnly) AllowObject(id Identity, action Action, _ uint) error {
	return p.Allow(id, action)
}

type authorOrStaffOrReadOnly struct{}

func (authorOrStaffOrReadOnly) Allow(id Identity, action Action) error {
	if action.Safe() || id.Authenticated() {
		return nil
	}
	return apperrors.Unauthenticated()
}

func (authorOrStaffOrReadOnly) AllowObject(id Identity, action Action, ownerID uint) error {
	if action.Safe() {
		return nil
	}
	if !id.Authenticated() {
		return apperrors.Unauthenticated()
	}
	if id.UserID == ownerID || id.Level >= LevelModerator {
		return nil
	}
	return apperrors.Forbidden("only the author, a moderator or an administrator may change this entry")
}

type adminOnly struct{}

func (adminOnly) Allow(id Identity, _ Action) error {
	if id.IsAdmin() {
		return nil
	}
	return deny(id, "access is limited to administrators")
}

func (p adminOnly) AllowObject(id Identity, action Action, _ uint) error {
	return p.Allow(id, action)
}

type authenticatedOnly struct{}

func (authenticatedOnly) Allow(id Identity, _ Action) error {
	if id.Authenticated() {
		return nil
	}
	return apperrors.Unauthenticated()
}

func (authenticatedOnly) AllowObject(id Identity, _ Action, ownerID uint) error {
	if !id.Authenticated() {
		return apperrors.Unauthenticated()
	}
	if id.UserID != ownerID {
		return apperrors.Forbidden("")
	}
	return nil
}
