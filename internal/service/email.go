package service

import (
	"fmt"
	"net/smtp"
	"time"

	"gamevault-api/internal/config"
)

// EmailSender delivers one-time codes. Implementations must treat the code
// as already-sensitive: it is not logged here.
type EmailSender interface {
	SendVerificationCode(to, code string) error
	SendResetCode(to, code string) error
}

// SMTPSender sends mail through a plain SMTP relay. The expiry line in each
// body follows the configured code windows.
type SMTPSender struct {
	cfg config.SMTPConfig
	otp config.OTPConfig
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg config.SMTPConfig, otp config.OTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, otp: otp}
}

func (s *SMTPSender) SendVerificationCode(to, code string) error {
	return s.send(to, "Your GameVault verification code",
		codeEmailBody("Email Verification", "Your verification code:", code, s.otp.VerifyTTL))
}

func (s *SMTPSender) SendResetCode(to, code string) error {
	return s.send(to, "GameVault password reset code",
		codeEmailBody("Password Reset", "Your reset code:", code, s.otp.ResetTTL))
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	msg := "From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n\r\n" +
		htmlBody

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	return smtp.SendMail(s.cfg.Addr(), auth, s.cfg.From, []string{to}, []byte(msg))
}

func codeEmailBody(heading, lead, code string, ttl time.Duration) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif;">
  <h2>%s</h2>
  <p>%s</p>
  <div style="font-size: 28px; font-weight: bold; letter-spacing: 6px; padding: 12px 18px; background: #111; color: #fff; display: inline-block; border-radius: 8px;">%s</div>
  <p style="margin-top: 16px;">This code expires in %s.</p>
</div>`, heading, lead, code, expiryPhrase(ttl))
}

// expiryPhrase renders a code TTL for the email body. Sub-minute windows are
// shown in seconds; everything else rounds up to whole minutes.
func expiryPhrase(ttl time.Duration) string {
	if ttl < time.Minute {
		return fmt.Sprintf("%d seconds", int(ttl.Seconds()))
	}
	minutes := int((ttl + time.Minute - 1) / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

var _ EmailSender = (*SMTPSender)(nil)
