package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motocare/motocare/internal/config"
	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/notify/email"
	"github.com/motocare/motocare/internal/reminder"
)

func newTestEngine(t *testing.T) (*Engine, *database.Client) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := &config.Config{
		Reminder: &config.ReminderConfig{
			Schedule:        "0 8 * * *",
			DueSoonDays:     14,
			DueSoonDistance: 500,
		},
	}
	e, err := New(cfg, db, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = e.Close()
	})
	return e, db
}

func TestVehicleStatusesNoHistory(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	user := &database.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, user))

	vehicle := &database.Vehicle{Brand: "Honda", ModelName: "Vario", CurrentKM: 1000, OwnerID: user.ID}
	require.NoError(t, db.CreateVehicle(ctx, vehicle))

	statuses, needsAttention, err := e.VehicleStatuses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, needsAttention)

	got := statuses[0]
	assert.Equal(t, reminder.StatusOK, got.Status)
	assert.Equal(t, 1000+database.DefaultKMInterval, got.NextDueKM)
	assert.Equal(t, database.DefaultKMInterval, got.KMLeft)
	assert.True(t, got.NextDueDate.After(time.Now()))
}

func TestVehicleStatusesOverdue(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	user := &database.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, user))

	vehicle := &database.Vehicle{Brand: "Honda", ModelName: "Vario", CurrentKM: 9000, OwnerID: user.ID}
	require.NoError(t, db.CreateVehicle(ctx, vehicle))

	// serviced long ago and far below the current reading
	require.NoError(t, db.CreateServiceRecord(ctx, &database.ServiceRecord{
		ServiceDate: "2020-01-15",
		KMAtService: 5000,
		Description: "oil change",
		VehicleID:   vehicle.ID,
	}))

	statuses, needsAttention, err := e.VehicleStatuses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, needsAttention)

	got := statuses[0]
	assert.Equal(t, reminder.StatusOverdue, got.Status)
	assert.Equal(t, 5000+database.DefaultKMInterval, got.NextDueKM)
	assert.Equal(t, time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC), got.NextDueDate)
	assert.Negative(t, got.DaysLeft)
	assert.Negative(t, got.KMLeft)
}

func TestRunReminderJobWalksAllUsers(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := &config.Config{
		Reminder: &config.ReminderConfig{
			Schedule:        "0 8 * * *",
			DueSoonDays:     14,
			DueSoonDistance: 500,
		},
	}
	e, err := New(cfg, db, email.New(&config.EmailConfig{Enabled: false}))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = e.Close()
	})

	ctx := context.Background()
	for i, name := range []string{"alice", "bob", "carol"} {
		user := &database.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
		require.NoError(t, db.CreateUser(ctx, user))

		vehicle := &database.Vehicle{Brand: "Honda", ModelName: "Vario", CurrentKM: 9000, OwnerID: user.ID}
		require.NoError(t, db.CreateVehicle(ctx, vehicle))
		if i > 0 {
			// everyone but alice is long overdue
			require.NoError(t, db.CreateServiceRecord(ctx, &database.ServiceRecord{
				ServiceDate: "2020-01-15",
				KMAtService: 5000,
				VehicleID:   vehicle.ID,
			}))
		}
	}

	assert.NoError(t, e.runReminderJob(ctx))
}

func TestVehicleStatusesUsesHighestServiceKM(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	user := &database.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, user))

	vehicle := &database.Vehicle{Brand: "Honda", ModelName: "Vario", CurrentKM: 6000, OwnerID: user.ID}
	require.NoError(t, db.CreateVehicle(ctx, vehicle))

	today := time.Now().Format("2006-01-02")
	for _, km := range []int{4000, 5500, 4800} {
		require.NoError(t, db.CreateServiceRecord(ctx, &database.ServiceRecord{
			ServiceDate: today,
			KMAtService: km,
			VehicleID:   vehicle.ID,
		}))
	}

	statuses, _, err := e.VehicleStatuses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 5500+database.DefaultKMInterval, statuses[0].NextDueKM)
}
