package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yashcdw/Crew-Car/internal/logger"
	"github.com/yashcdw/Crew-Car/internal/metrics"
)

const (
	queueKey       = "crewcar:emails"
	failedQueueKey = "crewcar:emails:failed"
	maxTries       = 3
)

type Job struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues outbound mail in Redis and drains the queue from a
// background worker, so a slow SMTP server never blocks a booking request.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := Job{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		metrics.RecordEmail(subject, "queue_failed")
		return err
	}

	metrics.SetEmailQueueLength(s.QueueLength(ctx))
	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			s.saveFailed(job, err)
			metrics.RecordEmail(job.Subject, "failed")
		}
		return
	}

	metrics.RecordEmail(job.Subject, "sent")
	metrics.SetEmailQueueLength(s.QueueLength(ctx))
	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, route, departure, paymentMethod string) error {
	subject := "Trip Booking Confirmed"
	body := fmt.Sprintf(`Hi %s,

Your seat is confirmed!

Route: %s
Departure: %s
Payment: %s

Safe travels,
CrewCar Team`, name, route, departure, paymentMethod)

	return s.Send(ctx, to, name, subject, body)
}

func (s *Service) SendNewRiderNotification(ctx context.Context, to, name, riderName, route, departure string) error {
	subject := "New Rider on Your Trip"
	body := fmt.Sprintf(`Hi %s,

%s just booked a seat on your trip.

Route: %s
Departure: %s

Safe travels,
CrewCar Team`, name, riderName, route, departure)

	return s.Send(ctx, to, name, subject, body)
}

func (s *Service) SendBookingCancellation(ctx context.Context, to, name, route string, refundedCents int64) error {
	subject := "Trip Booking Cancelled"
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled.

Route: %s
`, name, route)
	if refundedCents > 0 {
		body += fmt.Sprintf("\n%.2f TRY has been refunded to your wallet.\n", float64(refundedCents)/100)
	}
	body += "\nCrewCar Team"

	return s.Send(ctx, to, name, subject, body)
}
