// Package models holds the JSON representations served by the API.
package models

// User represents an account, including its admin status.
type User struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"isAdmin"`
	GravatarURL string `json:"gravatarUrl,omitempty"`
	MemberSince string `json:"memberSince,omitempty"`
}

// Vehicle represents a vehicle in the owner's garage.
type Vehicle struct {
	ID               uint   `json:"id"`
	Brand            string `json:"brand"`
	Model            string `json:"model"`
	Year             int    `json:"year,omitempty"`
	PlateNumber      string `json:"plateNumber,omitempty"`
	CurrentKM        int    `json:"currentKm"`
	CurrentKMDisplay string `json:"currentKmDisplay"`
	AddedAgo         string `json:"addedAgo,omitempty"`
}

// ServiceRecord represents one entry of a vehicle's service history.
type ServiceRecord struct {
	ID              uint   `json:"id"`
	Date            string `json:"date"`
	KMAtService     int    `json:"kmAtService"`
	Description     string `json:"description,omitempty"`
	Cost            int    `json:"cost"`
	WorkshopName    string `json:"workshopName,omitempty"`
	WorkshopAddress string `json:"workshopAddress,omitempty"`
	PhotoURL        string `json:"photoUrl,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
}

// Schedule represents a vehicle's reminder intervals.
type Schedule struct {
	TimeIntervalMonths int `json:"timeIntervalMonths"`
	KMInterval         int `json:"kmInterval"`
}

// VehicleReminder is the computed due state for one vehicle.
type VehicleReminder struct {
	VehicleID   uint   `json:"vehicleId"`
	Vehicle     string `json:"vehicle"`
	PlateNumber string `json:"plateNumber,omitempty"`
	NextDueDate string `json:"nextDueDate"`
	NextDueKM   int    `json:"nextDueKm"`
	DaysLeft    int    `json:"daysLeft"`
	KMLeft      int    `json:"kmLeft"`
	DueIn       string `json:"dueIn"`
	Status      string `json:"status"`
}

// ReminderOverview is the full reminder view for one user.
type ReminderOverview struct {
	Vehicles       []VehicleReminder `json:"vehicles"`
	NeedsAttention bool              `json:"needsAttention"`
}
