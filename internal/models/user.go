// Package models contains data structures for the application's domain models.
package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Roles a community member can hold.
const (
	RoleStudent = "student"
	RoleViewer  = "viewer"
)

// User represents a registered community member.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Role        string         `gorm:"not null;default:student" json:"role"`
	CollegeID   string         `json:"college_id,omitempty"`
	CollegeName string         `json:"college_name,omitempty"`
	IsVerified  bool           `gorm:"not null;default:false" json:"is_verified"`
	VerifiedAt  *time.Time     `json:"verified_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsViewer reports whether the user only has read access to member features.
func (u *User) IsViewer() bool {
	return u.Role == RoleViewer
}

// Author returns the denormalized display identity attached to posts and comments.
func (u *User) Author() AuthorView {
	return AuthorView{
		ID:       strconv.FormatUint(uint64(u.ID), 10),
		Name:     u.Name,
		Verified: u.IsVerified,
	}
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleViewer
}
