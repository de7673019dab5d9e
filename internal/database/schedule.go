package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Default reminder intervals applied to every newly created vehicle.
const (
	DefaultTimeIntervalMonths = 2
	DefaultKMInterval         = 2000
)

// ReminderSchedule holds the per-vehicle maintenance intervals. Every
// vehicle owns exactly one schedule, created in the same transaction as the
// vehicle and deleted together with it.
type ReminderSchedule struct {
	gorm.Model
	TimeIntervalMonths int  `gorm:"not null;default:2"`
	KMInterval         int  `gorm:"not null;default:2000"`
	VehicleID          uint `gorm:"uniqueIndex;not null"`
}

// GetScheduleByVehicle returns the reminder schedule of a vehicle.
func (c *Client) GetScheduleByVehicle(ctx context.Context, vehicleID uint) (*ReminderSchedule, error) {
	var schedule ReminderSchedule
	if err := c.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).First(&schedule).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get reminder schedule", "vehicle_id", vehicleID, "error", err)
		}
		return nil, err
	}
	return &schedule, nil
}

// UpdateSchedule sets new reminder intervals for a vehicle. Returns false
// when no schedule row exists for that vehicle.
func (c *Client) UpdateSchedule(ctx context.Context, vehicleID uint, timeIntervalMonths, kmInterval int) (bool, error) {
	res := c.db.WithContext(ctx).Model(&ReminderSchedule{}).
		Where("vehicle_id = ?", vehicleID).
		Updates(map[string]any{
			"time_interval_months": timeIntervalMonths,
			"km_interval":          kmInterval,
		})
	if res.Error != nil {
		log.Error("failed to update reminder schedule", "vehicle_id", vehicleID, "error", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
