package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// MailSettings is read from SMTP_* variables.
type MailSettings struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string // e.g. "Idea Portfolio <no-reply@your.org>"
	SkipTLSVerify bool
}

// MailSettingsFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS,
// SMTP_FROM and SMTP_SKIP_TLS_VERIFY.
func MailSettingsFromEnv() MailSettings {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return MailSettings{
		Host:          os.Getenv("SMTP_HOST"),
		Port:          port,
		User:          os.Getenv("SMTP_USER"),
		Pass:          os.Getenv("SMTP_PASS"),
		From:          os.Getenv("SMTP_FROM"),
		SkipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// Configured reports whether a host and sender are set.
func (s MailSettings) Configured() bool {
	return s.Host != "" && s.From != ""
}

// SendMail delivers an HTML message over STARTTLS.
func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	s := MailSettingsFromEnv()
	if !s.Configured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.SkipTLSVerify, // dev only
	}

	return d.DialAndSend(m)
}
