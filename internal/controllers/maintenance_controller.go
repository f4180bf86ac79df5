package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/httpx"
	"fleet_tracker/internal/lifecycle"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/policy"
)

type createMaintenanceInput struct {
	VehicleID    uint      `json:"vehicle_id" binding:"required"`
	TechnicianID *uint     `json:"technician_id"`
	Type         string    `json:"type" binding:"required"`
	Description  string    `json:"description" binding:"required"`
	Cost         *float64  `json:"cost" binding:"required"`
	Date         time.Time `json:"date" binding:"required"`
	Status       string    `json:"status"`
}

// CreateMaintenance opens a maintenance record against an existing
// vehicle. Technicians are always recorded as the assignee themselves;
// only admins may assign someone else or leave the record unassigned.
// The vehicle's status is synced in the same transaction.
func CreateMaintenance(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var input createMaintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, httpx.Validation("invalid maintenance input: "+err.Error()))
		return
	}

	if *input.Cost < 0 {
		httpx.Fail(c, httpx.Validation("cost must be non-negative"))
		return
	}
	if input.Status == "" {
		input.Status = models.MaintenancePending
	}
	if !models.ValidMaintenanceStatus(input.Status) {
		httpx.Fail(c, httpx.Validation("invalid maintenance status"))
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, input.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Fail(c, httpx.NotFound("vehicle not found"))
			return
		}
		httpx.Fail(c, err)
		return
	}

	record := models.Maintenance{
		VehicleID:   input.VehicleID,
		Type:        input.Type,
		Description: input.Description,
		Cost:        *input.Cost,
		Date:        input.Date,
		Status:      input.Status,
	}
	if actor.Role == models.RoleTechnician {
		id := actor.ID
		record.TechnicianID = &id
	} else {
		record.TechnicianID = input.TechnicianID
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return lifecycle.SyncVehicle(tx, record.VehicleID)
	})
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.Created(c, record)
}

// ListMaintenance is role-scoped: admins see everything, technicians see
// their assigned records, users see records for vehicles they own.
// Always newest first.
func ListMaintenance(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	query := config.DB.Preload("Vehicle").Preload("Technician")
	switch actor.Role {
	case models.RoleAdmin:
		// no filter
	case models.RoleTechnician:
		query = query.Where("technician_id = ?", actor.ID)
	default:
		owned := config.DB.Model(&models.Vehicle{}).Select("id").Where("user_id = ?", actor.ID)
		query = query.Where("vehicle_id IN (?)", owned)
	}

	var records []models.Maintenance
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, records)
}

// GetMaintenance fetches one record, subject to the access policy.
func GetMaintenance(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	record, err := findMaintenance(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanView(actor, record) {
		httpx.Fail(c, httpx.Forbidden("no access to this maintenance record"))
		return
	}

	httpx.OK(c, record)
}

type updateMaintenanceInput struct {
	TechnicianID *uint      `json:"technician_id"`
	Type         *string    `json:"type"`
	Description  *string    `json:"description"`
	Cost         *float64   `json:"cost"`
	Date         *time.Time `json:"date"`
	Status       *string    `json:"status"`
}

// UpdateMaintenance applies a sparse patch. Only admins and the assigned
// technician may update; reassignment is admin-only. A status change
// re-syncs the vehicle in the same transaction.
func UpdateMaintenance(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	record, err := findMaintenance(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanModifyMaintenance(actor, record) {
		httpx.Fail(c, httpx.Forbidden("no permission to update this record"))
		return
	}

	var input updateMaintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, httpx.Validation("invalid update: "+err.Error()))
		return
	}

	if input.TechnicianID != nil {
		if !actor.IsAdmin() {
			httpx.Fail(c, httpx.Forbidden("only admins may reassign records"))
			return
		}
		record.TechnicianID = input.TechnicianID
	}
	if input.Type != nil {
		record.Type = *input.Type
	}
	if input.Description != nil {
		record.Description = *input.Description
	}
	if input.Cost != nil {
		if *input.Cost < 0 {
			httpx.Fail(c, httpx.Validation("cost must be non-negative"))
			return
		}
		record.Cost = *input.Cost
	}
	if input.Date != nil {
		record.Date = *input.Date
	}
	if input.Status != nil {
		if !models.ValidMaintenanceStatus(*input.Status) {
			httpx.Fail(c, httpx.Validation("invalid maintenance status"))
			return
		}
		record.Status = *input.Status
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Vehicle", "Technician").Save(&record).Error; err != nil {
			return err
		}
		return lifecycle.SyncVehicle(tx, record.VehicleID)
	})
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	// re-read so the embedded vehicle reflects any status sync
	fresh, err := findMaintenance(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, fresh)
}

// DeleteMaintenance removes a record. Admin only, enforced both at the
// route and here; the vehicle is re-synced since an open record may have
// been holding it in maintenance.
func DeleteMaintenance(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	record, err := findMaintenance(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanDeleteMaintenance(actor) {
		httpx.Fail(c, httpx.Forbidden("no permission to delete maintenance records"))
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Maintenance{}, record.ID).Error; err != nil {
			return err
		}
		return lifecycle.SyncVehicle(tx, record.VehicleID)
	})
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.Message(c, "maintenance record deleted")
}

// MaintenanceStats aggregates counts and total cost over the ledger.
func MaintenanceStats(c *gin.Context) {
	var stats struct {
		Total     int64   `json:"total_maintenance"`
		Completed int64   `json:"completed_maintenance"`
		Pending   int64   `json:"pending_maintenance"`
		TotalCost float64 `json:"total_cost"`
	}

	err := config.DB.Model(&models.Maintenance{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending, "+
				"COALESCE(SUM(cost), 0) AS total_cost",
			models.MaintenanceCompleted, models.MaintenancePending,
		).
		Row().
		Scan(&stats.Total, &stats.Completed, &stats.Pending, &stats.TotalCost)
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, stats)
}

// findMaintenance resolves a path id to a record with its vehicle loaded
// (the policy needs the vehicle's owner).
func findMaintenance(idParam string) (models.Maintenance, error) {
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return models.Maintenance{}, httpx.Validation("invalid maintenance id")
	}

	var record models.Maintenance
	if err := config.DB.Preload("Vehicle").Preload("Technician").First(&record, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Maintenance{}, httpx.NotFound("maintenance record not found")
		}
		return models.Maintenance{}, err
	}
	return record, nil
}
