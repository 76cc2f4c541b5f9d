package utils

import (
	"coursehub/config"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends a transactional email through SendGrid
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("SendGrid API key not configured, skipping email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail("CourseHub", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid error: status %d", resp.StatusCode)
	}

	return nil
}

// SendEnrollmentConfirmation notifies a student that their enrollment
// is complete. Called after the payment state reaches COMPLETED; safe
// to fire-and-forget.
func SendEnrollmentConfirmation(toEmail, toName, courseTitle string) error {
	subject := "You're enrolled: " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your enrollment in <strong>%s</strong> is confirmed. The full course is now available in your dashboard.</p>
		<p>Happy learning!</p>`, toName, courseTitle)

	return SendEmail(toEmail, toName, subject, getEmailTemplate("Enrollment Confirmed", body))
}

// getEmailTemplate wraps body content in the standard CourseHub layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.footer { padding: 20px; text-align: center; font-size: 12px; color: #999999; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">CourseHub &middot; This is an automated message, please do not reply.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
