package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Harini-0111/electronics-astra-user/internal/config"
)

// MailService delivers verification codes over plain SMTP. Delivery is
// best effort: the caller stores the OTP before sending, so a failed send
// never loses a registration.
type MailService struct {
	Cfg *config.SMTPConfig
}

func NewMailService(cfg *config.SMTPConfig) *MailService {
	return &MailService{Cfg: cfg}
}

func (s *MailService) SendOTP(toEmail, name, otp string) error {
	body := fmt.Sprintf(`<h2>Welcome to Electronics Astra, %s!</h2>
<p>Your One-Time Password (OTP) for email verification is:</p>
<h3 style="color: #007bff; font-size: 24px; letter-spacing: 2px;">%s</h3>
<p>This OTP is valid for <strong>10 minutes</strong>.</p>
<p>If you didn't request this, please ignore this email.</p>
<hr>
<p><small>Do not share your OTP with anyone.</small></p>`, name, otp)

	return s.send(toEmail, "Your OTP for Registration - Electronics Astra", body)
}

func (s *MailService) SendPasswordResetOTP(toEmail, name, otp string) error {
	body := fmt.Sprintf(`<h2>Password reset requested</h2>
<p>Hi %s, use this code to reset your Electronics Astra password:</p>
<h3 style="color: #007bff; font-size: 24px; letter-spacing: 2px;">%s</h3>
<p>This code is valid for <strong>10 minutes</strong>.</p>
<p>If you didn't request a reset, your password is unchanged and you can ignore this email.</p>
<hr>
<p><small>Do not share this code with anyone.</small></p>`, name, otp)

	return s.send(toEmail, "Password Reset Code - Electronics Astra", body)
}

func (s *MailService) send(toEmail, subject, body string) error {
	auth := smtp.PlainAuth("", s.Cfg.Username, s.Cfg.Password, s.Cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.Cfg.Host, s.Cfg.Port)

	msg := strings.Join([]string{
		"From: " + s.Cfg.From,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, s.Cfg.From, []string{toEmail}, []byte(msg))
}
