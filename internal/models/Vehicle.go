// internal/models/vehicle.go
package models

import (
	"gorm.io/gorm"
)

// Vehicle status lifecycle. "maintenance" is driven by open maintenance
// records (see internal/lifecycle); the other two are set directly.
const (
	VehicleActive      = "active"
	VehicleMaintenance = "maintenance"
	VehicleInactive    = "inactive"
)

type Vehicle struct {
	gorm.Model
	Make string `json:"make"`
	// VehicleModel avoids clashing with the embedded gorm.Model
	VehicleModel string `json:"model" gorm:"column:model"`
	Year         int    `json:"year"`
	Plate        string `json:"plate"`
	Status       string `json:"status" gorm:"default:active"`
	UserID       uint   `json:"user_id" gorm:"index"` // owning user, never client-supplied
}

// ValidVehicleStatus reports whether s is a known vehicle status.
func ValidVehicleStatus(s string) bool {
	switch s {
	case VehicleActive, VehicleMaintenance, VehicleInactive:
		return true
	}
	return false
}
