package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleCaregiver = "caregiver"
	RoleManager   = "manager"
)

type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `gorm:"not null" json:"firstName"`
	LastName    string     `gorm:"not null" json:"lastName"`
	Role        string     `gorm:"not null;default:caregiver" json:"role"` // caregiver, manager
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// FullName is the name used in case assignment lists
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsManager checks if the user has the manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsValidRole checks if the role is valid
func IsValidRole(role string) bool {
	return role == RoleCaregiver || role == RoleManager
}

// UserSummary is the public projection returned by the user directory
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}
