// workers/reminder_worker.go
package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"couple-diary-system/models"
	"couple-diary-system/services"

	"gorm.io/gorm"
)

// reminderHourUTC is when users at risk of losing a streak get pinged.
const reminderHourUTC = 20

// minStreakWorthSaving: shorter streaks are not worth a nag.
const minStreakWorthSaving = 3

// StreakReminderWorker nudges users who hold a streak but have not logged
// anything today. Reminders go through the NotificationService, so they get
// the same in-app row plus best-effort external delivery as everything else.
type StreakReminderWorker struct {
	db            *gorm.DB
	notifications *services.NotificationService
	interval      time.Duration

	remindedOn map[string]time.Time // userID → last reminded day, avoids double pings
}

func NewStreakReminderWorker(db *gorm.DB, notifications *services.NotificationService) *StreakReminderWorker {
	return &StreakReminderWorker{
		db:            db,
		notifications: notifications,
		interval:      30 * time.Minute,
		remindedOn:    make(map[string]time.Time),
	}
}

func (w *StreakReminderWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Streak Reminder Worker…")
	go w.run(ctx)
}

func (w *StreakReminderWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(time.Now().UTC()); err != nil {
				log.Printf("❌ Streak reminder sweep failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Streak Reminder Worker stopped")
			return
		}
	}
}

func (w *StreakReminderWorker) sweep(now time.Time) error {
	if now.Hour() < reminderHourUTC {
		return nil
	}

	today := services.DateOnly(now)
	yesterday := today.AddDate(0, 0, -1)

	// streak holders whose last entry was yesterday: one more day of silence
	// and the streak is gone
	var atRisk []models.UserStats
	if err := w.db.Where("current_streak >= ? AND last_encounter_date = ?",
		minStreakWorthSaving, yesterday).Find(&atRisk).Error; err != nil {
		return err
	}

	for _, stats := range atRisk {
		if last, ok := w.remindedOn[stats.UserID]; ok && last.Equal(today) {
			continue
		}

		msg := fmt.Sprintf("Your %d-day streak ends at midnight! Log an encounter to keep it alive 🔥", stats.CurrentStreak)
		if _, err := w.notifications.Create(stats.UserID, models.NotificationStreakReminder, msg, nil); err != nil {
			log.Printf("⚠️ Failed to remind %s: %v", stats.UserID, err)
			continue
		}

		var user models.User
		if err := w.db.First(&user, "id = ?", stats.UserID).Error; err == nil &&
			user.SMSNotifications && user.PhoneNumber != "" {
			outcome := w.notifications.Dispatcher.Deliver(user.PhoneNumber, msg)
			if !outcome.Delivered {
				log.Printf("⚠️ External reminder for %s failed: %s", user.Username, outcome.Err)
			}
		}

		w.remindedOn[stats.UserID] = today
	}

	if len(atRisk) > 0 {
		log.Printf("✅ Streak reminders processed for %d users", len(atRisk))
	}
	return nil
}
