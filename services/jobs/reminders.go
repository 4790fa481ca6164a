package jobs

import (
	"log"
	"socialcare365/config"
	"socialcare365/models"
	"socialcare365/services"
	"time"

	"gorm.io/gorm"
)

// ReminderWindow is how far ahead meetings get a reminder
const ReminderWindow = 24 * time.Hour

// SendMeetingReminders emails the creator of every scheduled meeting starting
// within the reminder window. Each meeting is reminded once.
// It returns the number of reminders sent.
func SendMeetingReminders(database *gorm.DB, cfg *config.Config, now time.Time) int {
	now = now.UTC()
	var meetings []models.Meeting
	err := database.
		Where("status = ?", models.MeetingStatusScheduled).
		Where("scheduled_at > ? AND scheduled_at <= ?", now, now.Add(ReminderWindow)).
		Where("reminder_sent_at IS NULL").
		Find(&meetings).Error
	if err != nil {
		log.Printf("Error fetching meetings for reminders: %v", err)
		return 0
	}

	sent := 0
	for _, m := range meetings {
		var creator models.User
		if err := database.First(&creator, "id = ?", m.CreatedByID).Error; err != nil {
			log.Printf("Skipping reminder for meeting %s: creator not found: %v", m.ID, err)
			continue
		}
		if !creator.IsActive {
			continue
		}

		email, err := services.BuildMeetingReminderEmail(creator.Email, services.MeetingReminderEmailData{
			UserName:    creator.FirstName,
			Title:       m.Title,
			MeetingType: m.MeetingType,
			When:        m.ScheduledAt.Format("Monday, 2 January 2006 at 15:04"),
			Location:    m.Location,
			CaseName:    m.CaseName,
		})
		if err != nil {
			log.Printf("Error building reminder for meeting %s: %v", m.ID, err)
			continue
		}

		if err := services.SendEmail(cfg, email); err != nil {
			log.Printf("Error sending reminder for meeting %s: %v", m.ID, err)
			continue
		}

		if err := database.Model(&models.Meeting{}).Where("id = ?", m.ID).Update("reminder_sent_at", now).Error; err != nil {
			log.Printf("Error marking reminder sent for meeting %s: %v", m.ID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("Sent %d meeting reminders", sent)
	}
	return sent
}
