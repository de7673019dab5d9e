package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/api/models"
	"github.com/motocare/motocare/internal/garage"
)

// maxPhotoSize caps uploaded receipt photos at 10 MiB.
const maxPhotoSize = 10 << 20

// LogService appends a service record to a vehicle's history. The
// request is multipart so a receipt photo can ride along.
func (h *Handler) LogService(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	var req struct {
		Date            string `form:"date" binding:"required"`
		KMAtService     int    `form:"kmAtService"`
		Description     string `form:"description"`
		Cost            int    `form:"cost"`
		WorkshopName    string `form:"workshopName"`
		WorkshopAddress string `form:"workshopAddress"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var photo []byte
	if file, err := c.FormFile("photo"); err == nil {
		if file.Size > maxPhotoSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo too large"})
			return
		}
		opened, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
		defer opened.Close()
		photo, err = io.ReadAll(opened)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
	}

	record, odometerAdvanced, err := h.garage.LogService(c.Request.Context(), vehicle.ID, garage.ServiceParams{
		Date:            req.Date,
		KMAtService:     req.KMAtService,
		Description:     req.Description,
		Cost:            req.Cost,
		WorkshopName:    req.WorkshopName,
		WorkshopAddress: req.WorkshopAddress,
		Photo:           photo,
	})
	if err != nil {
		if errors.Is(err, garage.ErrInvalidDate) || errors.Is(err, garage.ErrInvalidCost) || errors.Is(err, garage.ErrInvalidOdometer) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error("Failed to log service", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log service"})
		return
	}

	h.cacheManager.ClearReminders(vehicle.OwnerID)
	c.JSON(http.StatusCreated, gin.H{
		"record":           models.ToServiceRecord(record),
		"odometerAdvanced": odometerAdvanced,
	})
}

// ServiceHistory returns the vehicle's records, most recent first.
func (h *Handler) ServiceHistory(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	records, err := h.garage.History(c.Request.Context(), vehicle.ID)
	if err != nil {
		log.Error("Failed to load history", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, models.ToServiceRecords(records))
}

// ServiceCosts returns the total and average spend for a vehicle.
func (h *Handler) ServiceCosts(c *gin.Context) {
	vehicle, ok := h.ownedVehicle(c)
	if !ok {
		return
	}

	total, err := h.garage.TotalCost(c.Request.Context(), vehicle.ID)
	if err != nil {
		log.Error("Failed to sum costs", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sum costs"})
		return
	}
	average, err := h.garage.AverageCost(c.Request.Context(), vehicle.ID)
	if err != nil {
		log.Error("Failed to average costs", "vehicle", vehicle.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to average costs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "average": average})
}

// DeleteServiceRecord removes a single record and its photo.
func (h *Handler) DeleteServiceRecord(c *gin.Context) {
	recordID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record ID"})
		return
	}

	record, err := h.garage.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service record not found"})
		return
	}

	vehicle, err := h.garage.GetVehicle(c.Request.Context(), record.VehicleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service record not found"})
		return
	}
	user := currentUser(c)
	if vehicle.OwnerID != user.ID && !user.IsAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "service record not found"})
		return
	}

	if !requireConfirm(c) {
		return
	}

	if err := h.garage.DeleteRecord(c.Request.Context(), recordID); err != nil {
		log.Error("Failed to delete record", "record", recordID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete record"})
		return
	}

	h.cacheManager.ClearReminders(vehicle.OwnerID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
