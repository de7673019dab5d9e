// Package reminder computes when a vehicle is next due for service,
// both by calendar date and by odometer distance.
package reminder

import "time"

// Status classifies how urgent a vehicle's next service is.
type Status string

const (
	StatusOK      Status = "ok"
	StatusDueSoon Status = "due_soon"
	StatusOverdue Status = "overdue"
)

// NextDueDate returns the date the next service is due. The interval is
// counted from the most recent service date, or from today when the
// vehicle has no service history. A date that already passed for a
// vehicle without history is pushed forward from today instead, so a
// freshly added vehicle never starts out overdue.
func NextDueDate(today time.Time, lastServiceDate *time.Time, intervalMonths int) time.Time {
	base := today
	if lastServiceDate != nil {
		base = *lastServiceDate
	}

	due := addMonthsClamped(base, intervalMonths)
	if lastServiceDate == nil && !due.After(today) {
		due = addMonthsClamped(today, intervalMonths)
	}
	return due
}

// addMonthsClamped advances t by the given number of months, clamping
// the day to the last day of the target month. February always clamps
// to 28, leap years included.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Year(), int(t.Month()), t.Day()

	month += months
	for month > 12 {
		month -= 12
		year++
	}

	if day > lastDay(time.Month(month)) {
		day = lastDay(time.Month(month))
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.Location())
}

func lastDay(month time.Month) int {
	switch month {
	case time.February:
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// NextDueDistance returns the odometer reading at which the next
// service is due. The interval is counted from the highest odometer
// value seen at a past service, or from the current reading when the
// vehicle has no service history.
func NextDueDistance(currentKM int, lastServiceKM *int, kmInterval int) int {
	if lastServiceKM != nil {
		return *lastServiceKM + kmInterval
	}
	return currentKM + kmInterval
}

// Classify maps the remaining days and kilometers to a status. Either
// dimension alone is enough to escalate: a vehicle that sat unused past
// its due date is overdue even with plenty of kilometers left, and vice
// versa.
func Classify(daysLeft, kmLeft, dueSoonDays, dueSoonKM int) Status {
	if daysLeft <= 0 || kmLeft <= 0 {
		return StatusOverdue
	}
	if daysLeft <= dueSoonDays || kmLeft <= dueSoonKM {
		return StatusDueSoon
	}
	return StatusOK
}

// NeedsAttention reports whether any status in the fleet is due soon or
// overdue.
func NeedsAttention(statuses []Status) bool {
	for _, s := range statuses {
		if s != StatusOK {
			return true
		}
	}
	return false
}

// DaysUntil counts the full days from today to the due date, ignoring
// the time-of-day component of both.
func DaysUntil(today, due time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}
