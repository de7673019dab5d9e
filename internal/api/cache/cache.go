// Package cache keeps computed reminder overviews per user so repeated
// dashboard loads do not recompute the due math on every request.
package cache

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	gocache "github.com/patrickmn/go-cache"

	"github.com/motocare/motocare/internal/api/models"
)

const defaultTTL = 5 * time.Minute

// Manager wraps go-cache with convenience methods for API use.
type Manager struct {
	cache *gocache.Cache
}

// NewManager creates a new cache manager.
func NewManager() *Manager {
	return &Manager{
		cache: gocache.New(defaultTTL, 10*time.Minute),
	}
}

func reminderKey(userID uint) string {
	return fmt.Sprintf("reminders_%d", userID)
}

// GetReminders retrieves the cached reminder overview for a user.
func (m *Manager) GetReminders(userID uint) (*models.ReminderOverview, bool) {
	if data, found := m.cache.Get(reminderKey(userID)); found {
		if overview, ok := data.(*models.ReminderOverview); ok {
			log.Debug("Cache hit for reminders", "userID", userID)
			return overview, true
		}
	}
	log.Debug("Cache miss for reminders", "userID", userID)
	return nil, false
}

// SetReminders stores the reminder overview for a user.
func (m *Manager) SetReminders(userID uint, overview *models.ReminderOverview) {
	m.cache.Set(reminderKey(userID), overview, defaultTTL)
}

// ClearReminders drops the cached overview for a user. Called whenever
// a mutation could change the due math.
func (m *Manager) ClearReminders(userID uint) {
	m.cache.Delete(reminderKey(userID))
	log.Debug("Cache cleared for reminders", "userID", userID)
}
