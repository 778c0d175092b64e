package invite

import (
	"crypto/tls"
	"errors"
	"net/smtp"

	"interviewai/interview/internal/config"
)

// Mailer sends invitation email over SMTP.
type Mailer struct {
	cfg config.SMTP
}

func NewMailer(cfg config.SMTP) (*Mailer, error) {
	if cfg.User == "" || cfg.Pass == "" || cfg.From == "" {
		return nil, errors.New("SMTP not configured")
	}
	return &Mailer{cfg: cfg}, nil
}

func (m *Mailer) Send(to, subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	msg := []byte("From: \"InterviewAI\" <" + m.cfg.From + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		// port 465 expects an implicit TLS handshake before SMTP
		if m.cfg.Port == "465" {
			return m.sendImplicitTLS(addr, auth, to, msg)
		}
		return err
	}
	return nil
}

func (m *Mailer) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	tlsconfig := &tls.Config{ServerName: m.cfg.Host}
	conn, err := tls.Dial("tcp", addr, tlsconfig)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()
	if err = c.Auth(auth); err != nil {
		return err
	}
	if err = c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write(msg); err != nil {
		return err
	}
	return wc.Close()
}
