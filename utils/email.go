// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// SendEmail sends a plain-text email through the configured SMTP relay.
// Returns without error when SMTP_HOST is unset so notification mail stays
// optional in local setups.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		return nil
	}

	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}

// NotifyRequestAccepted emails the farmer that a provider claimed their
// request. Best effort, called from a goroutine.
func NotifyRequestAccepted(farmerEmail, farmerName, reference, providerName string) {
	subject := fmt.Sprintf("Your service request %s has been accepted", reference)
	body := fmt.Sprintf("Dear %s,\n\nYour service request %s has been accepted by %s. They will be in touch to schedule the work.\n\nAgroConnect", farmerName, reference, providerName)
	SendEmail(farmerEmail, subject, body)
}

// NotifyRequestCompleted emails the farmer the final cost on completion.
func NotifyRequestCompleted(farmerEmail, farmerName, reference string, finalCost float64) {
	subject := fmt.Sprintf("Your service request %s is complete", reference)
	body := fmt.Sprintf("Dear %s,\n\nYour service request %s has been completed. Final cost: %.2f.\n\nAgroConnect", farmerName, reference, finalCost)
	SendEmail(farmerEmail, subject, body)
}
