package utils

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers verification and password-reset codes over SMTP. With no
// host configured it degrades to logging the message, which keeps local
// development working without a mail server.
type Mailer struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

func (m *Mailer) Send(to, subject, body string) error {
	if m == nil || m.Host == "" {
		log.Printf("mailer disabled, would send to %s: %s - %s", to, subject, body)
		return nil
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.From, to, subject, body))

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %v", to, err)
	}
	return nil
}

// SendVerificationCode formats the standard code email.
func (m *Mailer) SendVerificationCode(to, code string) error {
	return m.Send(to, "TerraUrb: código de verificação",
		fmt.Sprintf("Seu código de verificação é: %s\nEle expira em 15 minutos.", code))
}

// SendPasswordResetCode formats the password-reset email.
func (m *Mailer) SendPasswordResetCode(to, code string) error {
	return m.Send(to, "TerraUrb: redefinição de senha",
		fmt.Sprintf("Seu código para redefinir a senha é: %s\nEle expira em 15 minutos.", code))
}
