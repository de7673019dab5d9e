package database

import (
	"context"
	"math"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// ServiceRecord represents one logged maintenance event. Records are
// immutable once created; they can only be deleted. Dates are stored as
// ISO strings (YYYY-MM-DD) so lexical ordering matches chronological order.
type ServiceRecord struct {
	gorm.Model
	ServiceDate     string `gorm:"not null;index"`
	KMAtService     int
	Description     string
	Cost            int
	WorkshopName    string
	WorkshopAddress string
	// PhotoKey references the stored workshop photo, empty when none was uploaded.
	PhotoKey  string
	VehicleID uint `gorm:"index;not null"`
}

// CreateServiceRecord inserts a new service record.
func (c *Client) CreateServiceRecord(ctx context.Context, record *ServiceRecord) error {
	if err := c.db.WithContext(ctx).Create(record).Error; err != nil {
		log.Error("failed to create service record", "error", err)
		return err
	}
	return nil
}

// GetServiceRecordByID returns the service record with the given id.
func (c *Client) GetServiceRecordByID(ctx context.Context, id uint) (*ServiceRecord, error) {
	var record ServiceRecord
	if err := c.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get service record by id", "error", err)
		}
		return nil, err
	}
	return &record, nil
}

// ListServiceRecords returns all service records of a vehicle, most recent
// service date first.
func (c *Client) ListServiceRecords(ctx context.Context, vehicleID uint) ([]ServiceRecord, error) {
	var records []ServiceRecord
	if err := c.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("service_date DESC").
		Find(&records).Error; err != nil {
		log.Error("failed to list service records", "vehicle_id", vehicleID, "error", err)
		return nil, err
	}
	return records, nil
}

// DeleteServiceRecord removes a service record.
func (c *Client) DeleteServiceRecord(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Unscoped().Delete(&ServiceRecord{}, id)
	if res.Error != nil {
		log.Error("failed to delete service record", "id", id, "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TotalServiceCost returns the sum of all service costs of a vehicle.
func (c *Client) TotalServiceCost(ctx context.Context, vehicleID uint) (int, error) {
	var total int
	err := c.db.WithContext(ctx).Model(&ServiceRecord{}).
		Where("vehicle_id = ?", vehicleID).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&total).Error
	if err != nil {
		log.Error("failed to sum service costs", "vehicle_id", vehicleID, "error", err)
		return 0, err
	}
	return total, nil
}

// AverageServiceCost returns the rounded mean service cost of a vehicle,
// or 0 when no records exist.
func (c *Client) AverageServiceCost(ctx context.Context, vehicleID uint) (int, error) {
	var stats struct {
		Total int
		Count int
	}
	err := c.db.WithContext(ctx).Model(&ServiceRecord{}).
		Where("vehicle_id = ?", vehicleID).
		Select("COALESCE(SUM(cost), 0) AS total, COUNT(*) AS count").
		Scan(&stats).Error
	if err != nil {
		log.Error("failed to average service costs", "vehicle_id", vehicleID, "error", err)
		return 0, err
	}
	if stats.Count == 0 {
		return 0, nil
	}
	return int(math.Round(float64(stats.Total) / float64(stats.Count))), nil
}
