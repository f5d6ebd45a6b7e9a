// Package mailer delivers exported reports by email.
package mailer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("mail delivery is not configured, set DTR_SMTP_HOST")

// Config holds the SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// FromEnv reads the DTR_SMTP_* variables. The port defaults to 587.
func FromEnv() (Config, error) {
	c := Config{
		Host:     os.Getenv("DTR_SMTP_HOST"),
		Port:     587,
		Username: os.Getenv("DTR_SMTP_USERNAME"),
		Password: os.Getenv("DTR_SMTP_PASSWORD"),
		From:     os.Getenv("DTR_SMTP_FROM"),
	}
	if port := os.Getenv("DTR_SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return c, fmt.Errorf("invalid DTR_SMTP_PORT %q: %w", port, err)
		}
		c.Port = p
	}
	if c.From == "" {
		c.From = c.Username
	}
	return c, nil
}

// Attachment is a file attached to a message.
type Attachment struct {
	Name    string
	Content []byte
}

// Message builds the email carrying a report. body is HTML.
func (c Config) Message(to []string, subject, body string, attachments ...Attachment) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", c.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	for _, a := range attachments {
		content := a.Content
		m.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	return m
}

// Send delivers the message.
func (c Config) Send(m *gomail.Message) error {
	if c.Host == "" {
		return ErrNotConfigured
	}
	d := gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)
	if err := d.DialAndSend(m); err != nil {
		log.Error().Err(err).Str("host", c.Host).Msg("cannot send mail")
		return fmt.Errorf("cannot send mail: %w", err)
	}
	log.Info().Strs("to", m.GetHeader("To")).Msg("mail sent")
	return nil
}
