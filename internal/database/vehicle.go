package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Vehicle represents a registered motor vehicle. CurrentKM is monotonically
// non-decreasing; it only ever moves forward through UpdateVehicleKM.
type Vehicle struct {
	gorm.Model
	Brand       string `gorm:"not null"`
	ModelName   string `gorm:"column:model;not null"`
	Year        int
	PlateNumber string
	CurrentKM   int  `gorm:"not null;default:0"`
	OwnerID     uint `gorm:"index;not null"`

	Services []ServiceRecord   `gorm:"foreignKey:VehicleID"`
	Schedule *ReminderSchedule `gorm:"foreignKey:VehicleID"`
}

// CreateVehicle inserts a vehicle together with its default reminder schedule.
// Both rows are written in one transaction so a vehicle can never exist
// without a schedule.
func (c *Client) CreateVehicle(ctx context.Context, vehicle *Vehicle) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vehicle).Error; err != nil {
			return err
		}
		schedule := &ReminderSchedule{
			TimeIntervalMonths: DefaultTimeIntervalMonths,
			KMInterval:         DefaultKMInterval,
			VehicleID:          vehicle.ID,
		}
		if err := tx.Create(schedule).Error; err != nil {
			return err
		}
		vehicle.Schedule = schedule
		return nil
	})
	if err != nil {
		log.Error("failed to create vehicle", "error", err)
	}
	return err
}

// GetVehicleByID returns the vehicle with the given id.
func (c *Client) GetVehicleByID(ctx context.Context, id uint) (*Vehicle, error) {
	var vehicle Vehicle
	if err := c.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get vehicle by id", "error", err)
		}
		return nil, err
	}
	return &vehicle, nil
}

// ListVehiclesByOwner returns all vehicles belonging to one owner.
func (c *Client) ListVehiclesByOwner(ctx context.Context, ownerID uint) ([]Vehicle, error) {
	var vehicles []Vehicle
	if err := c.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&vehicles).Error; err != nil {
		log.Error("failed to list vehicles", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return vehicles, nil
}

// CountVehicles returns the total number of vehicles.
func (c *Client) CountVehicles(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Vehicle{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateVehicleKM advances the odometer reading of a vehicle. Returns true
// only when newKM is strictly greater than the stored value; otherwise the
// row is left untouched and false is returned, without an error.
func (c *Client) UpdateVehicleKM(ctx context.Context, id uint, newKM int) (bool, error) {
	res := c.db.WithContext(ctx).Model(&Vehicle{}).
		Where("id = ? AND current_km < ?", id, newKM).
		Update("current_km", newKM)
	if res.Error != nil {
		log.Error("failed to update vehicle odometer", "id", id, "error", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteVehicleCascade removes a vehicle together with its reminder schedule
// and all service records in a single transaction.
func (c *Client) DeleteVehicleCascade(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle Vehicle
		if err := tx.First(&vehicle, id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("vehicle_id = ?", id).Delete(&ReminderSchedule{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("vehicle_id = ?", id).Delete(&ServiceRecord{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&vehicle).Error
	})
}
