package models

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
	"github.com/samber/lo"

	"github.com/motocare/motocare/internal/config"
	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/engine"
	"github.com/motocare/motocare/internal/gravatar"
)

// ToUser converts a database.User for API responses. The password hash
// never leaves the database layer.
func ToUser(u *database.User, gravatarCfg *config.GravatarConfig) User {
	return User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		GravatarURL: gravatar.GenerateURL(u.Email, gravatarCfg),
		MemberSince: timediff.TimeDiff(u.CreatedAt),
	}
}

// ToUsers converts a slice of database.User.
func ToUsers(users []database.User, gravatarCfg *config.GravatarConfig) []User {
	return lo.Map(users, func(u database.User, _ int) User {
		return ToUser(&u, gravatarCfg)
	})
}

// ToVehicle converts a database.Vehicle.
func ToVehicle(v *database.Vehicle) Vehicle {
	return Vehicle{
		ID:               v.ID,
		Brand:            v.Brand,
		Model:            v.ModelName,
		Year:             v.Year,
		PlateNumber:      v.PlateNumber,
		CurrentKM:        v.CurrentKM,
		CurrentKMDisplay: humanize.Comma(int64(v.CurrentKM)) + " km",
		AddedAgo:         timediff.TimeDiff(v.CreatedAt),
	}
}

// ToVehicles converts a slice of database.Vehicle.
func ToVehicles(vehicles []database.Vehicle) []Vehicle {
	return lo.Map(vehicles, func(v database.Vehicle, _ int) Vehicle {
		return ToVehicle(&v)
	})
}

// ToServiceRecord converts a database.ServiceRecord. Photo URLs point
// at the photo endpoint, empty when the record has no photo.
func ToServiceRecord(r *database.ServiceRecord) ServiceRecord {
	record := ServiceRecord{
		ID:              r.ID,
		Date:            r.ServiceDate,
		KMAtService:     r.KMAtService,
		Description:     r.Description,
		Cost:            r.Cost,
		WorkshopName:    r.WorkshopName,
		WorkshopAddress: r.WorkshopAddress,
	}
	if r.PhotoKey != "" {
		record.PhotoURL = fmt.Sprintf("/api/photos/%s", r.PhotoKey)
		record.ThumbnailURL = fmt.Sprintf("/api/photos/%s?thumb=true", r.PhotoKey)
	}
	return record
}

// ToServiceRecords converts a slice of database.ServiceRecord.
func ToServiceRecords(records []database.ServiceRecord) []ServiceRecord {
	return lo.Map(records, func(r database.ServiceRecord, _ int) ServiceRecord {
		return ToServiceRecord(&r)
	})
}

// ToSchedule converts a database.ReminderSchedule.
func ToSchedule(s *database.ReminderSchedule) Schedule {
	return Schedule{
		TimeIntervalMonths: s.TimeIntervalMonths,
		KMInterval:         s.KMInterval,
	}
}

// ToReminderOverview converts the engine's computed reminder states.
func ToReminderOverview(reminders []engine.VehicleReminder, needsAttention bool) ReminderOverview {
	return ReminderOverview{
		NeedsAttention: needsAttention,
		Vehicles: lo.Map(reminders, func(r engine.VehicleReminder, _ int) VehicleReminder {
			return VehicleReminder{
				VehicleID:   r.Vehicle.ID,
				Vehicle:     fmt.Sprintf("%s %s", r.Vehicle.Brand, r.Vehicle.ModelName),
				PlateNumber: r.Vehicle.PlateNumber,
				NextDueDate: r.NextDueDate.Format("2006-01-02"),
				NextDueKM:   r.NextDueKM,
				DaysLeft:    r.DaysLeft,
				KMLeft:      r.KMLeft,
				DueIn:       timediff.TimeDiff(r.NextDueDate),
				Status:      string(r.Status),
			}
		}),
	}
}
