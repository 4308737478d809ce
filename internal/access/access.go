// Package access models who is calling and what they may do.
//
// Every caller is reduced to a privilege Level. Levels are strictly ordered,
// so policies compare levels instead of checking role strings and staff flags
// ad hoc.
package access

import (
	"reviewhub/internal/model"
)

// Level is a caller's privilege tier.
type Level int

const (
	LevelAnonymous Level = iota
	LevelUser
	LevelModerator
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelUser:
		return "user"
	case LevelModerator:
		return "moderator"
	case LevelAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// PrivilegeLevel folds a stored role and the staff flag into a Level. The
// staff flag grants admin rights independently of the role.
func PrivilegeLevel(role model.Role, isStaff bool) Level {
	if isStaff || role == model.RoleAdmin {
		return LevelAdmin
	}
	if role == model.RoleModerator {
		return LevelModerator
	}
	return LevelUser
}

// Identity is the resolved caller of a request. The zero value is anonymous.
type Identity struct {
	UserID   uint
	Username string
	Level    Level
}

// Anonymous is the identity of a request without valid credentials.
var Anonymous = Identity{}

// IdentityOf builds the identity for an authenticated user.
func IdentityOf(u *model.User) Identity {
	return Identity{
		UserID:   u.ID,
		Username: u.Username,
		Level:    PrivilegeLevel(u.Role, u.IsStaff),
	}
}

// Authenticated reports whether the identity belongs to a user.
func (i Identity) Authenticated() bool {
	return i.Level > LevelAnonymous
}

// IsAdmin reports admin rights, whether granted by role or by staff flag.
func (i Identity) IsAdmin() bool {
	return i.Level == LevelAdmin
}

// IsModerator reports the moderator role exactly.
func (i Identity) IsModerator() bool {
	return i.Level == LevelModerator
}
