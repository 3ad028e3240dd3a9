package notify

import (
	"fmt"
	"log"

	"posting-engine/config"

	"gopkg.in/gomail.v2"
)

// Notifier tells caseworkers a sheet moved into their queue. Delivery is
// best-effort; a lost mail never fails the transition that triggered it.
type Notifier interface {
	SheetSubmitted(to, subject string, sheetNumber int)
	SheetDecided(to, subject string, sheetNumber int, approved bool)
}

type mailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailNotifier returns a no-op notifier when SMTP_HOST is unset, so local
// setups work without a mail server.
func NewMailNotifier() Notifier {
	host := config.GetEnv("SMTP_HOST", "")
	if host == "" {
		return noopNotifier{}
	}
	port := config.GetEnvAsInt("SMTP_PORT", 587)
	user := config.GetEnv("SMTP_USER", "")
	pass := config.GetEnv("SMTP_PASSWORD", "")
	from := config.GetEnv("SMTP_FROM", user)
	return &mailNotifier{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (n *mailNotifier) SheetSubmitted(to, subject string, sheetNumber int) {
	n.send(to, "Note sheet awaiting approval",
		fmt.Sprintf("Note sheet #%d (%s) has been routed to you for approval.", sheetNumber, subject))
}

func (n *mailNotifier) SheetDecided(to, subject string, sheetNumber int, approved bool) {
	verdict := "declined"
	if approved {
		verdict = "approved"
	}
	n.send(to, "Note sheet "+verdict,
		fmt.Sprintf("Note sheet #%d (%s) has been %s.", sheetNumber, subject, verdict))
}

func (n *mailNotifier) send(to, subject, body string) {
	if to == "" {
		return
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := n.dialer.DialAndSend(m); err != nil {
		log.Printf("notify: mail to %s failed: %v", to, err)
	}
}

type noopNotifier struct{}

func (noopNotifier) SheetSubmitted(string, string, int)     {}
func (noopNotifier) SheetDecided(string, string, int, bool) {}
