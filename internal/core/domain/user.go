package domain

import (
	"strconv"
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStandard UserRole = "standard"
)

// DeletedUserSentinel replaces name, email and password digest on soft delete.
const DeletedUserSentinel = "User is deleted"

type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordDigest string
	Role           UserRole
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

// Principal is the identity resolved from a verified credential.
type Principal struct {
	ID   int64
	Role UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) Subject() string {
	return strconv.FormatInt(p.ID, 10)
}

func RoleFromFlag(isAdmin bool) UserRole {
	if isAdmin {
		return RoleAdmin
	}

	return RoleStandard
}

type UserFilter struct {
	IsAdmin bool
	Limit   int
	Offset  int
}
