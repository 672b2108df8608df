package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendMail delivers a plain+HTML multipart message through the SMTP
// relay configured via SMTP_* environment variables. When the relay is
// not configured the message is logged instead so development and tests
// run without a mail account.
func SendMail(recipientEmail, subject, plainBody, htmlBody string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] to:%s subject:%q", recipientEmail, subject)
		return nil
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	boundary := "----=_MAIL_BOUNDARY"

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + recipientEmail + "\r\n")
	msg.WriteString("Subject: " + strings.ReplaceAll(subject, "\r\n", " ") + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(plainBody + "\r\n")
	if htmlBody != "" {
		msg.WriteString("--" + boundary + "\r\n")
		msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(htmlBody + "\r\n")
	}
	msg.WriteString("--" + boundary + "--\r\n")

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(msg.String())); err != nil {
		log.Printf("failed to send email to %s: %v", recipientEmail, err)
		return err
	}
	return nil
}
