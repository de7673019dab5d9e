package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/api/models"
	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/garage"
)

type createVehicleRequest struct {
	Brand       string `json:"brand" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Year        int    `json:"year"`
	PlateNumber string `json:"plateNumber"`
	CurrentKM   int    `json:"currentKm"`
}

type odometerRequest struct {
	CurrentKM int `json:"currentKm" binding:"required"`
}

type scheduleRequest struct {
	TimeIntervalMonths int `json:"timeIntervalMonths" binding:"required"`
	KMInterval         int `json:"kmInterval" binding:"required"`
}

// ownedVehicle resolves the :id param to a vehicle the caller may
// access. Vehicles of other owners are reported as not found.
func (h *Handler) ownedVehicle(c *gin.Context) (*database.Vehicle, bool) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle ID"})
		return nil, false
	}

	vehicle, err := h.garage.GetVehicle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return nil, false
	}

	user := currentUser(c)
	if vehicle.OwnerID != user.ID && !user.IsAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return nil, false
	}
	return vehicle, true
}

// ListVehicles returns the caller's garage.
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.garage.ListVehicles(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		log.Error("Failed to list vehicles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vehicles"})
		return
	}
	c.JSON(http.StatusOK, models.ToVehicles(vehicles))
}

// CreateVehicle adds a vehicle with its default reminder schedule.
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	vehicle, err := h.garage.AddVehicle(c.Request.Context(), user.ID, garage.VehicleParams{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		PlateNumber: req.PlateNumber,
		CurrentKM:   req.CurrentKM,
	})
	if err != nil {
		if errors.Is(err, garage.ErrInvalidVehicle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error("Failed to create vehicle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create vehicle"})
		return
	}

	h.cacheManager.ClearReminders(user.ID)
	c.JSON(http.StatusCreated, models.ToVehicle(vehicle))
}

// GetVehicle returns a single vehicle.
func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.ToVehicle(vehicle))
}

// UpdateOdometer sets a new odometer reading. Readings at or below the
// current value are acknowledged but ignored.
func (h *Handler) UpdateOdometer(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	var req odometerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.garage.UpdateOdometer(c.Request.Context(), vehicle.ID, req.CurrentKM)
	if err != nil {
		log.Error("Failed to update odometer", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update odometer"})
		return
	}

	if updated {
		h.cacheManager.ClearReminders(currentUser(c).ID)
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteVehicle removes a vehicle with its history and schedule.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}
	if !requireConfirm(c) {
		return
	}

	if err := h.garage.DeleteVehicle(c.Request.Context(), vehicle.ID); err != nil {
		log.Error("Failed to delete vehicle", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete vehicle"})
		return
	}

	h.cacheManager.ClearReminders(vehicle.OwnerID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSchedule returns the vehicle's reminder intervals.
func (h *Handler) GetSchedule(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	schedule, err := h.garage.GetSchedule(c.Request.Context(), vehicle.ID)
	if err != nil {
		log.Error("Failed to get schedule", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get schedule"})
		return
	}
	c.JSON(http.StatusOK, models.ToSchedule(schedule))
}

// UpdateSchedule sets new reminder intervals.
func (h *Handler) UpdateSchedule(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.garage.UpdateSchedule(c.Request.Context(), vehicle.ID, req.TimeIntervalMonths, req.KMInterval)
	if err != nil {
		if errors.Is(err, garage.ErrInvalidSchedule) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error("Failed to update schedule", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update schedule"})
		return
	}

	h.cacheManager.ClearReminders(vehicle.OwnerID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
