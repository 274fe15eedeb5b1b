// Package models defines data structures used across the application.
// File: models/user.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ----------------------- role -----------------------

// Role is the privilege level stored in users.role.
type Role int

// Role values as stored in the database. Anything else is treated as regular.
const (
	RoleRegular Role = 1
	RoleAdmin   Role = 2
)

// IsAdmin reports whether the role grants row management.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	switch r {
	case RoleRegular:
		return "regular"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// ParseRole accepts the registration form value: the numeric code or the role name.
func ParseRole(raw string) (Role, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "regular", "user":
		return RoleRegular, nil
	case "admin":
		return RoleAdmin, nil
	}
	n, err := strconv.Atoi(raw)
	if err == nil {
		switch Role(n) {
		case RoleRegular, RoleAdmin:
			return Role(n), nil
		}
	}
	return 0, fmt.Errorf("invalid role %q", raw)
}

// ----------------------- user model -----------------------

// User is an account in the users table. PasswordHash maps to the legacy
// "password" column.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"column:password;not null" json:"-"`
	Role         Role   `gorm:"not null;default:1" json:"role"`
}

// TableName pins the table name used by the credential store.
func (User) TableName() string { return "users" }
