// Package mailer delivers result summaries and report attachments over SMTP.
// Senders return errors; worker jobs log them and move on — mail failure is
// never surfaced to the original request.
package mailer

import (
	"fmt"
	"io"

	"github.com/quiz-platform/quiz-service/internal/scoring"
	gomail "gopkg.in/gomail.v2"
)

type Mailer interface {
	// SendResult mails a plain-text score summary to a player.
	SendResult(to, quizTitle string, summary scoring.Summary, elapsedSeconds int) error
	// SendReport mails a rendered report document to an admin.
	SendReport(to, quizTitle, filename, contentType string, attachment []byte) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) SendResult(to, quizTitle string, summary scoring.Summary, elapsedSeconds int) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Quiz results: %s", quizTitle))
	msg.SetBody("text/plain", resultBody(to, quizTitle, summary, elapsedSeconds))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send result mail: %w", err)
	}
	return nil
}

func (m *smtpMailer) SendReport(to, quizTitle, filename, contentType string, attachment []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Quiz report - %s", quizTitle))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello,\n\nAttached is the results report for the quiz %q.\n\n--\nQuiz Platform Team\n", quizTitle))
	msg.Attach(filename,
		gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}
	return nil
}

// resultBody renders the player mail. The encouragement line flips at 80%.
func resultBody(to, quizTitle string, summary scoring.Summary, elapsedSeconds int) string {
	encouragement := "Keep practicing - you can do better!"
	if summary.Percentage >= 80 {
		encouragement = "Congratulations, excellent result!"
	}

	return fmt.Sprintf(`Hello %s,

Results for the quiz %q:

  Points:     %d/%d
  Percentage: %.1f%%
  Time:       %s

%s

Thank you for playing!

--
Quiz Platform Team
`, to, quizTitle, summary.Awarded, summary.Maximum, summary.Percentage,
		FormatElapsed(elapsedSeconds), encouragement)
}

// FormatElapsed renders an elapsed duration as "M minutes and S seconds";
// zero or negative values render as "N/A".
func FormatElapsed(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d minutes and %d seconds", seconds/60, seconds%60)
}
