package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender отправляет письма по SMTP без аутентификации,
// предполагается локальный relay рядом с воркером
type Sender struct {
	host string
	port int
	from string
}

// NewSender создает SMTP-отправителя
func NewSender(host string, port int, from string) *Sender {
	return &Sender{host: host, port: port, from: from}
}

// Send отправляет одно письмо в plain text
func (s *Sender) Send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s via %s: %w", to, addr, err)
	}
	return nil
}
