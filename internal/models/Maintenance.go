package models

import (
	"time"

	"gorm.io/gorm"
)

// Maintenance record statuses. "in_progress" is the only status that
// holds a vehicle in "maintenance".
const (
	MaintenancePending    = "pending"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
	MaintenanceCancelled  = "cancelled"
)

// Maintenance is a single service entry against a vehicle. TechnicianID
// is nullable: admins may create unassigned records.
type Maintenance struct {
	gorm.Model
	VehicleID    uint      `json:"vehicle_id" gorm:"index"`
	TechnicianID *uint     `json:"technician_id" gorm:"index"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Cost         float64   `json:"cost"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status" gorm:"default:pending"`

	Vehicle    Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Technician *User   `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
}

// ValidMaintenanceStatus reports whether s is a known maintenance status.
func ValidMaintenanceStatus(s string) bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}
