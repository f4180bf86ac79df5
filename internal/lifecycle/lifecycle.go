// Package lifecycle owns the vehicle status side effect of maintenance
// writes. Instead of flipping the vehicle on the single record being
// mutated, the vehicle status is recomputed from the set of open records
// inside the caller's transaction, so a vehicle with two jobs in progress
// stays in "maintenance" until both are closed.
package lifecycle

import (
	"fmt"

	"gorm.io/gorm"

	"fleet_tracker/internal/models"
)

// holdsVehicle is the transition table keyed by maintenance status: a
// record in a "true" status holds its vehicle in "maintenance".
var holdsVehicle = map[string]bool{
	models.MaintenancePending:    false,
	models.MaintenanceInProgress: true,
	models.MaintenanceCompleted:  false,
	models.MaintenanceCancelled:  false,
}

// HoldsVehicle reports whether a maintenance record in the given status
// keeps its vehicle under maintenance.
func HoldsVehicle(status string) bool {
	return holdsVehicle[status]
}

// SyncVehicle recomputes a vehicle's status from its open maintenance
// records. Must run inside the same transaction as the maintenance write
// so the record and the vehicle can never be observed out of step.
//
// Rules:
//   - any open record            -> "maintenance"
//   - none open, was maintenance -> "active"
//   - none open, otherwise       -> unchanged ("inactive" stays inactive)
func SyncVehicle(tx *gorm.DB, vehicleID uint) error {
	var open int64
	err := tx.Model(&models.Maintenance{}).
		Where("vehicle_id = ? AND status = ?", vehicleID, models.MaintenanceInProgress).
		Count(&open).Error
	if err != nil {
		return fmt.Errorf("count open maintenance: %w", err)
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, vehicleID).Error; err != nil {
		return fmt.Errorf("load vehicle %d: %w", vehicleID, err)
	}

	next := vehicle.Status
	switch {
	case open > 0:
		next = models.VehicleMaintenance
	case vehicle.Status == models.VehicleMaintenance:
		next = models.VehicleActive
	}

	if next == vehicle.Status {
		return nil
	}
	return tx.Model(&models.Vehicle{}).
		Where("id = ?", vehicleID).
		Update("status", next).Error
}
