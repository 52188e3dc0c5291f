package services

import (
	"calendartasking_go/config"
	"calendartasking_go/database"
	"calendartasking_go/models"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReminderScheduler turns reminder_minutes_before offsets on events, tasks
// and sessions into Notification rows on a cron cadence.
type ReminderScheduler struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewReminderScheduler creates a scheduler bound to the global database
func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{
		db:   database.DB,
		cron: cron.New(),
	}
}

// Start registers the sweep jobs and starts the cron loop
func (rs *ReminderScheduler) Start() {
	spec := config.AppConfig.ReminderSweepSpec

	if _, err := rs.cron.AddFunc(spec, rs.Sweep); err != nil {
		logrus.WithError(err).Error("Failed to schedule reminder sweep")
		return
	}

	if _, err := rs.cron.AddFunc("@every 5m", FlushCachedActivityLogs); err != nil {
		logrus.WithError(err).Error("Failed to schedule activity log flush")
	}

	rs.cron.Start()
	logrus.Info("Reminder scheduler started")
}

// Stop halts the cron loop
func (rs *ReminderScheduler) Stop() {
	if rs.cron != nil {
		rs.cron.Stop()
	}
}

// Sweep scans items whose reminder instant fell inside the elapsed window
func (rs *ReminderScheduler) Sweep() {
	now := time.Now().UTC()
	windowStart := now.Add(-config.AppConfig.ReminderSweepWindow)

	rs.sweepEvents(windowStart, now)
	rs.sweepTasks(windowStart, now)
	rs.sweepSessions(windowStart, now)
}

func (rs *ReminderScheduler) sweepEvents(windowStart, now time.Time) {
	var events []models.Event
	err := rs.db.
		Where("reminder_minutes_before IS NOT NULL AND status = ?", "Planned").
		Where("start_utc > ?", now).
		Find(&events).Error
	if err != nil {
		logrus.WithError(err).Error("Reminder sweep: failed to fetch events")
		return
	}

	for _, event := range events {
		reminderAt := event.StartUtc.Add(-time.Duration(*event.ReminderMinutesBefore) * time.Minute)
		if reminderAt.After(windowStart) && !reminderAt.After(now) {
			message := fmt.Sprintf("Event %q starts at %s", event.Title, event.StartUtc.Format(time.RFC3339))
			rs.notify(event.CreatedByUserID, "Upcoming event", message)
		}
	}
}

func (rs *ReminderScheduler) sweepTasks(windowStart, now time.Time) {
	var tasks []models.TaskItem
	err := rs.db.
		Where("reminder_minutes_before IS NOT NULL AND due_utc IS NOT NULL AND status != ?", "Done").
		Where("due_utc > ?", now).
		Find(&tasks).Error
	if err != nil {
		logrus.WithError(err).Error("Reminder sweep: failed to fetch tasks")
		return
	}

	for _, task := range tasks {
		reminderAt := task.DueUtc.Add(-time.Duration(*task.ReminderMinutesBefore) * time.Minute)
		if reminderAt.After(windowStart) && !reminderAt.After(now) {
			message := fmt.Sprintf("Task %q is due at %s", task.Title, task.DueUtc.Format(time.RFC3339))
			rs.notify(task.CreatedByUserID, "Task due soon", message)
		}
	}
}

func (rs *ReminderScheduler) sweepSessions(windowStart, now time.Time) {
	var sessions []models.PrivateClassSession
	err := rs.db.
		Where("session_start_utc > ? AND status = ?", now, "Scheduled").
		Find(&sessions).Error
	if err != nil {
		logrus.WithError(err).Error("Reminder sweep: failed to fetch sessions")
		return
	}

	// Sessions have no reminder column; use a fixed 30 minute lead
	const sessionLead = 30 * time.Minute
	for _, session := range sessions {
		reminderAt := session.SessionStartUtc.Add(-sessionLead)
		if reminderAt.After(windowStart) && !reminderAt.After(now) {
			message := fmt.Sprintf("Session with %s starts at %s",
				session.StudentName, session.SessionStartUtc.Format(time.RFC3339))
			rs.notify(session.CreatedByUserID, "Upcoming session", message)
		}
	}
}

// notify writes a Notification unless an identical one already exists
func (rs *ReminderScheduler) notify(userID uint, title, message string) {
	var count int64
	err := rs.db.Model(&models.Notification{}).
		Where("user_id = ? AND message = ?", userID, message).
		Count(&count).Error
	if err != nil || count > 0 {
		return
	}

	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    "reminder",
	}

	if err := rs.db.Create(&notification).Error; err != nil {
		logrus.WithError(err).Error("Reminder sweep: failed to create notification")
	}
}
