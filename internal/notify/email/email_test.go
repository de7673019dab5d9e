package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motocare/motocare/internal/config"
)

func TestGenerateWelcomeBody(t *testing.T) {
	n := New(&config.EmailConfig{})

	body, err := n.generateBody("welcome.html", map[string]string{
		"Username": "alice",
		"Email":    "alice@example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "alice@example.com")
	assert.Contains(t, body, "MotoCare")
}

func TestGenerateReminderBody(t *testing.T) {
	n := New(&config.EmailConfig{})

	body, err := n.generateBody("reminder.html", ReminderNotification{
		UserName: "alice",
		Vehicles: []VehicleDue{
			{
				Name:        "Honda Vario",
				PlateNumber: "B 1234 ABC",
				NextDueDate: "2024-03-15",
				NextDueKM:   3000,
				KMLeft:      -200,
				DaysLeft:    -3,
				Status:      "overdue",
			},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Honda Vario")
	assert.Contains(t, body, "B 1234 ABC")
	assert.Contains(t, body, "2024-03-15")
	assert.Contains(t, body, "overdue")
}

func TestSendSkipsWhenDisabled(t *testing.T) {
	n := New(&config.EmailConfig{Enabled: false})

	assert.NoError(t, n.SendWelcome("alice@example.com", "alice"))
	assert.NoError(t, n.SendDueReminder(ReminderNotification{
		UserEmail: "alice@example.com",
		UserName:  "alice",
		Vehicles:  []VehicleDue{{Name: "Honda Vario"}},
	}))
}
