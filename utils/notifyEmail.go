package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendCardActivatedEmail tells a patient their clinic card is active and when
// it expires. Delivery failures are the caller's concern; the workflow that
// triggered the notification has already committed.
func SendCardActivatedEmail(email, patientName, expiryDate string) error {
	fromEmail := os.Getenv("SMTP_USER")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your Clinic Card Is Active")

	m.SetBody("text/plain", "Dear "+patientName+", your clinic card is now active and valid until "+expiryDate+".")

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Clinic Card Activated</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				background-color: #f4f4f4;
				margin: 0;
				padding: 0;
			}
			.container {
				background-color: #ffffff;
				margin: 20px auto;
				padding: 20px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
				max-width: 600px;
			}
			h1 {
				color: #333333;
			}
			p {
				color: #666666;
			}
			.expiry {
				font-weight: bold;
				color: #007bff;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Clinic Card Activated</h1>
			<p>Dear ` + patientName + `,</p>
			<p>Your clinic card is now active. It is valid until:</p>
			<p class="expiry">` + expiryDate + `</p>
			<p>Please bring your card with you to your next visit.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		log.Printf("Invalid SMTP_PORT value: %v", err)
		return err
	}

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
