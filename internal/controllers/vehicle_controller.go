package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/httpx"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/policy"
)

type createVehicleInput struct {
	Make   string `json:"make" binding:"required"`
	Model  string `json:"model" binding:"required"`
	Year   int    `json:"year" binding:"required"`
	Plate  string `json:"plate" binding:"required"`
	Status string `json:"status"`
}

// CreateVehicle registers a vehicle under the authenticated actor. The
// owner always comes from the token, never from the payload.
func CreateVehicle(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var input createVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, httpx.Validation("invalid vehicle input: "+err.Error()))
		return
	}

	if input.Status == "" {
		input.Status = models.VehicleActive
	}
	if !models.ValidVehicleStatus(input.Status) {
		httpx.Fail(c, httpx.Validation("invalid vehicle status"))
		return
	}

	vehicle := models.Vehicle{
		Make:         input.Make,
		VehicleModel: input.Model,
		Year:         input.Year,
		Plate:        input.Plate,
		Status:       input.Status,
		UserID:       actor.ID,
	}
	if err := config.DB.Create(&vehicle).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.Created(c, vehicle)
}

// ListVehicles returns all vehicles for admins and only the actor's own
// vehicles otherwise. The filter is applied in the query, never after.
func ListVehicles(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var vehicles []models.Vehicle
	query := config.DB
	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.ID)
	}
	if err := query.Find(&vehicles).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, vehicles)
}

// GetVehicle fetches one vehicle, subject to the access policy.
func GetVehicle(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	vehicle, err := findVehicle(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanView(actor, vehicle) {
		httpx.Fail(c, httpx.Forbidden("no access to this vehicle"))
		return
	}

	httpx.OK(c, vehicle)
}

type updateVehicleInput struct {
	Make   *string `json:"make"`
	Model  *string `json:"model"`
	Year   *int    `json:"year"`
	Plate  *string `json:"plate"`
	Status *string `json:"status"`
}

// UpdateVehicle applies a sparse patch: only fields present in the body
// change, everything else is left as stored.
func UpdateVehicle(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	vehicle, err := findVehicle(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanModifyVehicle(actor, vehicle) {
		httpx.Fail(c, httpx.Forbidden("no permission to update this vehicle"))
		return
	}

	var input updateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, httpx.Validation("invalid update: "+err.Error()))
		return
	}

	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.VehicleModel = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Plate != nil {
		vehicle.Plate = *input.Plate
	}
	if input.Status != nil {
		if !models.ValidVehicleStatus(*input.Status) {
			httpx.Fail(c, httpx.Validation("invalid vehicle status"))
			return
		}
		vehicle.Status = *input.Status
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, vehicle)
}

// DeleteVehicle removes a vehicle owned by the actor (or any vehicle for
// an admin).
func DeleteVehicle(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	vehicle, err := findVehicle(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanModifyVehicle(actor, vehicle) {
		httpx.Fail(c, httpx.Forbidden("no permission to delete this vehicle"))
		return
	}

	if err := config.DB.Delete(&vehicle).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.Message(c, "vehicle deleted")
}

// VehicleMaintenanceHistory returns the vehicle together with its
// maintenance records, newest first.
func VehicleMaintenanceHistory(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	vehicle, err := findVehicle(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanView(actor, vehicle) {
		httpx.Fail(c, httpx.Forbidden("no access to this vehicle's history"))
		return
	}

	var records []models.Maintenance
	if err := config.DB.
		Preload("Technician").
		Where("vehicle_id = ?", vehicle.ID).
		Order("date DESC").
		Find(&records).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, gin.H{"vehicle": vehicle, "maintenance_history": records})
}

// VehicleStats counts the actor's visible vehicles per status.
func VehicleStats(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	query := config.DB.Model(&models.Vehicle{})
	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.ID)
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	stats := gin.H{"total": int64(0), "active": int64(0), "maintenance": int64(0), "inactive": int64(0)}
	var total int64
	for _, row := range rows {
		stats[row.Status] = row.Count
		total += row.Count
	}
	stats["total"] = total

	httpx.OK(c, stats)
}

// findVehicle resolves a path id to a vehicle or a typed error.
func findVehicle(idParam string) (models.Vehicle, error) {
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return models.Vehicle{}, httpx.Validation("invalid vehicle id")
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Vehicle{}, httpx.NotFound("vehicle not found")
		}
		return models.Vehicle{}, err
	}
	return vehicle, nil
}
