package models

import "gorm.io/gorm"

// Roles recognised by the access policy.
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
	RoleUser       = "user"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Role     string `json:"role"` // "admin", "technician", "user"

	Vehicles []Vehicle `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"vehicles,omitempty"`
}

// ValidRole reports whether role is one of the three recognised roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTechnician, RoleUser:
		return true
	}
	return false
}
