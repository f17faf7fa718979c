package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rente-dev/rente/internal/models"
	"github.com/rente-dev/rente/internal/types"
	"gopkg.in/gomail.v2"
)

// Mail is best effort: callers run these in a goroutine and log failures.
// Without SMTP_EMAIL configured every send is a silent no-op.

func sendMail(to, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")

	if from == "" {
		return nil
	}

	host := os.Getenv("SMTP_HOST")

	if host == "" {
		host = "smtp.gmail.com"
	}

	port := 587

	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			port = parsed
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, from, os.Getenv("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}

func SendWelcomeEmail(user models.User) error {
	body := fmt.Sprintf("Hi %s, welcome to Rente! Your account is ready.", user.FirstName)
	return sendMail(user.Email, "Welcome to Rente", body)
}

func SendTourDecisionEmail(tenant models.User, house models.House, status string) error {
	var subject, body string

	switch status {
	case types.TourAccepted:
		subject = "Your tour request was accepted"
		body = fmt.Sprintf("Hi %s, the landlord accepted your tour request for %q (%s).",
			tenant.FirstName, house.Title, house.Location)
	case types.TourRejected:
		subject = "Your tour request was declined"
		body = fmt.Sprintf("Hi %s, the landlord declined your tour request for %q (%s).",
			tenant.FirstName, house.Title, house.Location)
	default:
		return fmt.Errorf("no mail template for tour status %q", status)
	}

	return sendMail(tenant.Email, subject, body)
}
