// Package engine ties the garage data together with the reminder math
// and runs the scheduled reminder digest.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/motocare/motocare/internal/config"
	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/notify/email"
	"github.com/motocare/motocare/internal/reminder"
	"github.com/motocare/motocare/internal/scheduler"
)

// ReminderJobID names the scheduled digest job.
const ReminderJobID = "reminder_digest"

// Engine computes reminder statuses on demand and emails users whose
// vehicles need attention on a cron schedule.
type Engine struct {
	cfg       *config.Config
	db        *database.Client
	email     *email.NotificationService
	scheduler *scheduler.Scheduler
}

// VehicleReminder is the computed reminder state for one vehicle.
type VehicleReminder struct {
	Vehicle     database.Vehicle
	NextDueDate time.Time
	NextDueKM   int
	DaysLeft    int
	KMLeft      int
	Status      reminder.Status
}

// New creates a new Engine instance with its background jobs configured.
func New(cfg *config.Config, db *database.Client, emailService *email.NotificationService) (*Engine, error) {
	sched, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		db:        db,
		email:     emailService,
		scheduler: sched,
	}

	if err := e.setupJobs(); err != nil {
		return nil, err
	}
	return e, nil
}

// VehicleStatuses computes the reminder state for all of the owner's
// vehicles. The second return value is true when any vehicle is due
// soon or overdue.
func (e *Engine) VehicleStatuses(ctx context.Context, ownerID uint) ([]VehicleReminder, bool, error) {
	vehicles, err := e.db.ListVehiclesByOwner(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}

	today := time.Now()
	reminders := make([]VehicleReminder, 0, len(vehicles))

	for _, vehicle := range vehicles {
		state, err := e.vehicleStatus(ctx, vehicle, today)
		if err != nil {
			return nil, false, err
		}
		reminders = append(reminders, *state)
	}

	statuses := lo.Map(reminders, func(r VehicleReminder, _ int) reminder.Status {
		return r.Status
	})
	return reminders, reminder.NeedsAttention(statuses), nil
}

func (e *Engine) vehicleStatus(ctx context.Context, vehicle database.Vehicle, today time.Time) (*VehicleReminder, error) {
	schedule, err := e.db.GetScheduleByVehicle(ctx, vehicle.ID)
	if err != nil {
		schedule = &database.ReminderSchedule{
			TimeIntervalMonths: database.DefaultTimeIntervalMonths,
			KMInterval:         database.DefaultKMInterval,
		}
	}

	records, err := e.db.ListServiceRecords(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	var lastDate *time.Time
	var lastKM *int
	if len(records) > 0 {
		// records are ordered most recent first
		if parsed, err := time.Parse("2006-01-02", records[0].ServiceDate); err == nil {
			lastDate = &parsed
		}
		maxKM := lo.MaxBy(records, func(a, b database.ServiceRecord) bool {
			return a.KMAtService > b.KMAtService
		}).KMAtService
		lastKM = &maxKM
	}

	nextDate := reminder.NextDueDate(today, lastDate, schedule.TimeIntervalMonths)
	nextKM := reminder.NextDueDistance(vehicle.CurrentKM, lastKM, schedule.KMInterval)

	daysLeft := reminder.DaysUntil(today, nextDate)
	kmLeft := nextKM - vehicle.CurrentKM

	return &VehicleReminder{
		Vehicle:     vehicle,
		NextDueDate: nextDate,
		NextDueKM:   nextKM,
		DaysLeft:    daysLeft,
		KMLeft:      kmLeft,
		Status:      reminder.Classify(daysLeft, kmLeft, e.cfg.Reminder.DueSoonDays, e.cfg.Reminder.DueSoonDistance),
	}, nil
}

// GetScheduler returns the scheduler instance for API access.
func (e *Engine) GetScheduler() *scheduler.Scheduler {
	return e.scheduler
}

// RunReminderNow triggers the digest job outside its schedule.
func (e *Engine) RunReminderNow() error {
	return e.scheduler.RunJobNow(ReminderJobID)
}

// Run starts the engine and all its background jobs.
func (e *Engine) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	e.scheduler.Start()

	<-ctx.Done()
	return nil
}

// Close stops the engine and cleans up resources.
func (e *Engine) Close() error {
	return e.scheduler.Stop()
}

// runReminderJob mails every user whose vehicles are due soon or
// overdue. Users are processed concurrently, per-user failures are
// logged and do not abort the digest.
func (e *Engine) runReminderJob(ctx context.Context) error {
	users, err := e.db.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(4)
	for _, user := range users {
		g.Go(func() error {
			reminders, needsAttention, err := e.VehicleStatuses(ctx, user.ID)
			if err != nil {
				log.Error("Failed to compute reminders", "user", user.Username, "error", err)
				return nil
			}
			if !needsAttention {
				return nil
			}

			due := lo.Filter(reminders, func(r VehicleReminder, _ int) bool {
				return r.Status != reminder.StatusOK
			})

			notification := email.ReminderNotification{
				UserEmail: user.Email,
				UserName:  user.Username,
				DryRun:    e.cfg.DryRun,
				Vehicles: lo.Map(due, func(r VehicleReminder, _ int) email.VehicleDue {
					return email.VehicleDue{
						Name:        fmt.Sprintf("%s %s", r.Vehicle.Brand, r.Vehicle.ModelName),
						PlateNumber: r.Vehicle.PlateNumber,
						NextDueDate: r.NextDueDate.Format("2006-01-02"),
						NextDueKM:   r.NextDueKM,
						KMLeft:      r.KMLeft,
						DaysLeft:    r.DaysLeft,
						Status:      string(r.Status),
					}
				}),
			}

			if err := e.email.SendDueReminder(notification); err != nil {
				log.Error("Failed to send reminder email", "user", user.Username, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}
