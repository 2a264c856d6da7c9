package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"quickstaff-server/config"
	"quickstaff-server/models"
)

// smsSender abstracts the Twilio client so reminder formatting and selection
// can be tested without the network.
type smsSender interface {
	Send(to, body string) error
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

func (t *twilioSender) Send(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("Reminder SMS sent to %s, SID: %s", to, *resp.Sid)
	}
	return nil
}

// ReminderService sends next-day booking reminders to clients on a daily
// cron schedule. Send failures are logged and never touch booking state.
type ReminderService struct {
	db     *gorm.DB
	sender smsSender
	cron   *cron.Cron
}

func NewReminderService(db *gorm.DB) *ReminderService {
	cfg := config.AppConfig.Reminder

	return &ReminderService{
		db: db,
		sender: &twilioSender{
			client: twilio.NewRestClientWithParams(twilio.ClientParams{
				Username: cfg.TwilioAccountSID,
				Password: cfg.TwilioAuthToken,
			}),
			from: cfg.TwilioFromNumber,
		},
		cron: cron.New(),
	}
}

// StartScheduler begins the daily run. Returns an error only if the cron
// spec from config cannot be parsed.
func (s *ReminderService) StartScheduler() error {
	_, err := s.cron.AddFunc(config.AppConfig.Reminder.Schedule, s.SendDailyReminders)
	if err != nil {
		return fmt.Errorf("invalid reminder schedule: %w", err)
	}

	s.cron.Start()
	log.Println("✅ Reminder scheduler started")
	return nil
}

// Stop halts the scheduler; in-flight runs finish.
func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// SendDailyReminders texts every client with an accepted booking tomorrow.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily booking reminder run...")

	bookings, err := s.nextDayAcceptedBookings(time.Now())
	if err != nil {
		log.Printf("Failed to fetch next-day bookings: %v", err)
		return
	}

	sent := 0
	for _, booking := range bookings {
		if booking.Client.PhoneNumber == "" {
			continue
		}
		if err := s.sender.Send(booking.Client.PhoneNumber, ReminderMessage(&booking)); err != nil {
			log.Printf("Failed to send reminder for booking %s: %v", booking.Reference, err)
			continue
		}
		sent++
	}

	log.Printf("Daily reminder run completed: %d of %d sent", sent, len(bookings))
}

// nextDayAcceptedBookings returns accepted bookings whose date falls on the
// calendar day after now.
func (s *ReminderService) nextDayAcceptedBookings(now time.Time) ([]models.Booking, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 1)

	var bookings []models.Booking
	err := s.db.Where("status = ? AND booking_date >= ? AND booking_date < ?",
		models.BookingStatusAccepted, start, end).
		Preload("Client").Preload("Worker").
		Find(&bookings).Error
	return bookings, err
}

// ReminderMessage formats the SMS body for one booking.
func ReminderMessage(b *models.Booking) string {
	when := b.BookingDate.Format("Mon, 02 Jan")
	if b.StartTime != nil {
		when += " at " + *b.StartTime
	}
	worker := b.Worker.FullName
	if worker == "" {
		worker = "your worker"
	}
	return fmt.Sprintf("QuickStaff reminder: your booking %s with %s is tomorrow (%s).",
		b.Reference, worker, when)
}
