package models

import "gorm.io/gorm"

// Roles an account can hold. Admins manage accounts; uploaders may add,
// edit and delete images.
const (
	RoleAdmin    = "admin"
	RoleUploader = "uploader"
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"unique"`
	Password string `json:"-"` // bcrypt hash
	Role     string `json:"role"`
}
