package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole defines which side of the platform a user is on
type UserRole string

const (
	RoleParent    UserRole = "parent"
	RoleCaregiver UserRole = "caregiver"
)

// User is the profile record this core reads. Profile CRUD itself lives in
// the account service; messaging only resolves names, emails, and the
// notification toggle.
type User struct {
	ID                    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                  string    `json:"name" gorm:"size:100;not null"`
	Email                 string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role                  UserRole  `json:"role" gorm:"type:varchar(20);not null;index"`
	Avatar                string    `json:"avatar" gorm:"size:500;default:''"`
	IsNotificationEnabled bool      `json:"is_notification_enabled" gorm:"default:true"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// IsCaregiver reports whether the user is on the caregiver side of the platform.
func (u *User) IsCaregiver() bool {
	return u.Role == RoleCaregiver
}

// UserResponse is the safe version of User for API responses
type UserResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
	Avatar string    `json:"avatar"`
}

// ToResponse converts User to safe UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}
