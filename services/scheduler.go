// services/scheduler.go
package services

import (
	"log"
	"time"

	"couple-diary-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartWeeklyScheduler announces the fresh challenge week every Monday and
// sweeps stale pending proposals daily.
func (s *ChallengeService) StartWeeklyScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Monday 00:05 UTC: tell everyone the new week is live
	_, _ = sched.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday),
			gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			var users []models.User
			if err := s.DB.Find(&users).Error; err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, u := range users {
				n := models.Notification{
					UserID:  u.ID,
					Type:    models.NotificationChallenge,
					Message: "New weekly challenges are live 🏆",
				}
				if err := s.DB.Create(&n).Error; err != nil {
					log.Printf("[Scheduler] failed to notify %s: %v", u.ID, err)
				}
			}
			log.Printf("✅ Weekly challenge announcement sent to %d users", len(users))
		}),
	)

	// Daily: decline proposals whose date has passed without an answer
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			cutoff := DateOnly(time.Now())
			res := s.DB.Model(&models.ProposedEncounter{}).
				Where("status = ? AND date < ?", models.ProposalPending, cutoff).
				Updates(map[string]interface{}{"status": models.ProposalDeclined})
			if res.Error != nil {
				log.Printf("[Scheduler] proposal sweep failed: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("✅ Expired %d stale proposals", res.RowsAffected)
			}
		}),
	)
}
