package engine

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
)

// setupJobs configures all scheduled jobs.
func (e *Engine) setupJobs() error {
	jobDef := gocron.CronJob(e.cfg.Reminder.Schedule, false)
	if err := e.scheduler.AddSingletonJob(
		ReminderJobID,
		"Service Reminder Digest",
		e.cfg.Reminder.Schedule,
		jobDef,
		e.runReminderJob,
	); err != nil {
		return fmt.Errorf("failed to add reminder job: %w", err)
	}
	return nil
}
