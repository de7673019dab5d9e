// Package garage implements vehicle, service record and reminder
// schedule management for a single owner.
package garage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/photos"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrRecordNotFound  = errors.New("service record not found")
	ErrInvalidVehicle  = errors.New("brand and model are required")
	ErrInvalidDate     = errors.New("service date must be YYYY-MM-DD")
	ErrInvalidCost     = errors.New("cost must not be negative")
	ErrInvalidOdometer = errors.New("service odometer reading must be positive")
	ErrInvalidSchedule = errors.New("schedule intervals out of range")
)

const serviceDateLayout = "2006-01-02"

// Service owns the garage workflows. The photo store may be nil when
// photo uploads are disabled.
type Service struct {
	db     *database.Client
	photos *photos.Store
}

func New(db *database.Client, photoStore *photos.Store) *Service {
	return &Service{
		db:     db,
		photos: photoStore,
	}
}

// VehicleParams carries the user-supplied fields for a new vehicle.
type VehicleParams struct {
	Brand       string
	Model       string
	Year        int
	PlateNumber string
	CurrentKM   int
}

// AddVehicle registers a vehicle for the owner. A reminder schedule
// with default intervals is created in the same transaction.
func (s *Service) AddVehicle(ctx context.Context, ownerID uint, params VehicleParams) (*database.Vehicle, error) {
	if params.Brand == "" || params.Model == "" {
		return nil, ErrInvalidVehicle
	}
	if params.CurrentKM < 0 {
		params.CurrentKM = 0
	}

	vehicle := &database.Vehicle{
		Brand:       params.Brand,
		ModelName:   params.Model,
		Year:        params.Year,
		PlateNumber: params.PlateNumber,
		CurrentKM:   params.CurrentKM,
		OwnerID:     ownerID,
	}
	if err := s.db.CreateVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	log.Info("Added vehicle", "brand", vehicle.Brand, "model", vehicle.ModelName, "owner", ownerID)
	return vehicle, nil
}

// ListVehicles returns the owner's vehicles, oldest first.
func (s *Service) ListVehicles(ctx context.Context, ownerID uint) ([]database.Vehicle, error) {
	return s.db.ListVehiclesByOwner(ctx, ownerID)
}

// GetVehicle returns a single vehicle by ID.
func (s *Service) GetVehicle(ctx context.Context, id uint) (*database.Vehicle, error) {
	vehicle, err := s.db.GetVehicleByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVehicleNotFound
	}
	return vehicle, err
}

// UpdateOdometer sets the vehicle's odometer reading. The odometer only
// moves forward: a reading at or below the current one leaves the
// vehicle untouched and returns false.
func (s *Service) UpdateOdometer(ctx context.Context, vehicleID uint, newKM int) (bool, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return false, err
	}
	return s.db.UpdateVehicleKM(ctx, vehicleID, newKM)
}

// DeleteVehicle removes the vehicle with its service history and
// schedule. Stored photos are cleaned up first.
func (s *Service) DeleteVehicle(ctx context.Context, vehicleID uint) error {
	records, err := s.db.ListServiceRecords(ctx, vehicleID)
	if err != nil {
		return err
	}
	for _, record := range records {
		s.removePhoto(record.PhotoKey)
	}

	if err := s.db.DeleteVehicleCascade(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}

	log.Info("Deleted vehicle", "id", vehicleID)
	return nil
}

// ServiceParams carries the user-supplied fields for a new service
// record. Photo holds the raw uploaded image bytes, may be empty.
type ServiceParams struct {
	Date            string
	KMAtService     int
	Description     string
	Cost            int
	WorkshopName    string
	WorkshopAddress string
	Photo           []byte
}

// LogService appends a service record to the vehicle's history. When
// the serviced-at reading exceeds the vehicle's odometer the odometer
// advances with it, the returned bool reports whether that happened.
func (s *Service) LogService(ctx context.Context, vehicleID uint, params ServiceParams) (*database.ServiceRecord, bool, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return nil, false, err
	}
	if _, err := time.Parse(serviceDateLayout, params.Date); err != nil {
		return nil, false, ErrInvalidDate
	}
	if params.Cost < 0 {
		return nil, false, ErrInvalidCost
	}
	if params.KMAtService <= 0 {
		return nil, false, ErrInvalidOdometer
	}

	var photoKey string
	if len(params.Photo) > 0 && s.photos != nil {
		key, err := s.photos.Save(params.Photo)
		if err != nil {
			return nil, false, fmt.Errorf("failed to store photo: %w", err)
		}
		photoKey = key
	}

	record := &database.ServiceRecord{
		ServiceDate:     params.Date,
		KMAtService:     params.KMAtService,
		Description:     params.Description,
		Cost:            params.Cost,
		WorkshopName:    params.WorkshopName,
		WorkshopAddress: params.WorkshopAddress,
		PhotoKey:        photoKey,
		VehicleID:       vehicleID,
	}
	if err := s.db.CreateServiceRecord(ctx, record); err != nil {
		s.removePhoto(photoKey)
		return nil, false, fmt.Errorf("failed to create service record: %w", err)
	}

	advanced, err := s.db.UpdateVehicleKM(ctx, vehicleID, params.KMAtService)
	if err != nil {
		return nil, false, err
	}

	log.Info("Logged service", "vehicle", vehicleID, "date", params.Date, "odometer_advanced", advanced)
	return record, advanced, nil
}

// History returns the vehicle's service records, most recent first.
func (s *Service) History(ctx context.Context, vehicleID uint) ([]database.ServiceRecord, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.db.ListServiceRecords(ctx, vehicleID)
}

// GetRecord returns a single service record by ID.
func (s *Service) GetRecord(ctx context.Context, recordID uint) (*database.ServiceRecord, error) {
	record, err := s.db.GetServiceRecordByID(ctx, recordID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	return record, err
}

// DeleteRecord removes a single service record and its photo.
func (s *Service) DeleteRecord(ctx context.Context, recordID uint) error {
	record, err := s.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	s.removePhoto(record.PhotoKey)

	if err := s.db.DeleteServiceRecord(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

// TotalCost sums the cost of all service records for the vehicle.
func (s *Service) TotalCost(ctx context.Context, vehicleID uint) (int, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return 0, err
	}
	return s.db.TotalServiceCost(ctx, vehicleID)
}

// AverageCost returns the rounded average service cost, 0 when the
// vehicle has no history.
func (s *Service) AverageCost(ctx context.Context, vehicleID uint) (int, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return 0, err
	}
	return s.db.AverageServiceCost(ctx, vehicleID)
}

// GetSchedule returns the vehicle's reminder schedule. Vehicles created
// before schedules existed fall back to the default intervals.
func (s *Service) GetSchedule(ctx context.Context, vehicleID uint) (*database.ReminderSchedule, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	schedule, err := s.db.GetScheduleByVehicle(ctx, vehicleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &database.ReminderSchedule{
			TimeIntervalMonths: database.DefaultTimeIntervalMonths,
			KMInterval:         database.DefaultKMInterval,
			VehicleID:          vehicleID,
		}, nil
	}
	return schedule, err
}

// UpdateSchedule sets new reminder intervals. Months must be between 1
// and 12, the distance interval at least 500 km in steps of 500.
func (s *Service) UpdateSchedule(ctx context.Context, vehicleID uint, timeIntervalMonths, kmInterval int) error {
	if timeIntervalMonths < 1 || timeIntervalMonths > 12 {
		return ErrInvalidSchedule
	}
	if kmInterval < 500 || kmInterval%500 != 0 {
		return ErrInvalidSchedule
	}
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return err
	}

	updated, err := s.db.UpdateSchedule(ctx, vehicleID, timeIntervalMonths, kmInterval)
	if err != nil {
		return err
	}
	if !updated {
		// no schedule row yet, nothing to update against
		return ErrVehicleNotFound
	}
	return nil
}

func (s *Service) removePhoto(key string) {
	if key == "" || s.photos == nil {
		return
	}
	if err := s.photos.Remove(key); err != nil {
		log.Warn("Failed to remove photo", "key", key, "error", err)
	}
}
