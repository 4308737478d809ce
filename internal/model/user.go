package model

import "time"

// Role is the privilege tier stored on a user record.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account that reads, reviews and comments on titles.
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Username    string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email       string     `json:"email" gorm:"uniqueIndex;size:254;not null"`
	FirstName   string     `json:"first_name" gorm:"size:150"`
	LastName    string     `json:"last_name" gorm:"size:150"`
	Bio         string     `json:"bio" gorm:"type:text"`
	Role        Role       `json:"role" gorm:"size:16;not null;default:'user'"`
	IsStaff     bool       `json:"is_staff" gorm:"not null;default:false"` // staff accounts carry admin rights whatever the role
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
