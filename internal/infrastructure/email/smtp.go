package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "http://localhost:8081")
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendVerificationEmail(to, token string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify-email?token=%s", s.config.BaseURL, token)

	subject := "Verify Your Email Address"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome to MotorDesk!</h2>
			<p>Please verify your email address by clicking the link below:</p>
			<p><a href="%s">Verify Email Address</a></p>
			<p>Or copy and paste this URL into your browser:</p>
			<p>%s</p>
			<p>This link will expire in 24 hours.</p>
			<p>If you didn't create an account, please ignore this email.</p>
		</body>
		</html>
	`, verificationURL, verificationURL)

	plainBody := fmt.Sprintf(`
Welcome to MotorDesk!

Please verify your email address by visiting:
%s

This link will expire in 24 hours.

If you didn't create an account, please ignore this email.
	`, verificationURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

// SendGraceNoticeEmail tells the tenant owner the account entered its grace
// period and when write access will be suspended.
func (s *SMTPEmailService) SendGraceNoticeEmail(to, tenantName, suspendDate string) error {
	subject := "Payment Overdue: Action Required"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment Overdue for %s</h2>
			<p>Your subscription payment is overdue. Your account is now in a grace period.</p>
			<p>If payment is not received by <strong>%s</strong>, the account will be suspended and your team will lose write access.</p>
			<p>Visit your billing page to settle the outstanding invoice.</p>
		</body>
		</html>
	`, tenantName, suspendDate)

	plainBody := fmt.Sprintf(`
Payment Overdue for %s

Your subscription payment is overdue. Your account is now in a grace period.

If payment is not received by %s, the account will be suspended and your team will lose write access.

Visit your billing page to settle the outstanding invoice.
	`, tenantName, suspendDate)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

// SendSuspensionEmail tells the tenant owner the account was suspended.
func (s *SMTPEmailService) SendSuspensionEmail(to, tenantName string) error {
	subject := "Account Suspended"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>%s Has Been Suspended</h2>
			<p>Your account has been suspended due to an unpaid subscription.</p>
			<p>You can still sign in to view and settle your billing. Full access is restored immediately after payment.</p>
		</body>
		</html>
	`, tenantName)

	plainBody := fmt.Sprintf(`
%s Has Been Suspended

Your account has been suspended due to an unpaid subscription.

You can still sign in to view and settle your billing. Full access is restored immediately after payment.
	`, tenantName)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

// SendCancellationEmail confirms the subscription was cancelled and names the
// scheduled data deletion date.
func (s *SMTPEmailService) SendCancellationEmail(to, tenantName, deletionDate string) error {
	subject := "Subscription Cancelled"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Cancelled for %s</h2>
			<p>Your subscription has been cancelled.</p>
			<p>Your data will be retained until <strong>%s</strong> and permanently deleted after that date.</p>
			<p>Contact support if you cancelled by mistake.</p>
		</body>
		</html>
	`, tenantName, deletionDate)

	plainBody := fmt.Sprintf(`
Subscription Cancelled for %s

Your subscription has been cancelled.

Your data will be retained until %s and permanently deleted after that date.

Contact support if you cancelled by mistake.
	`, tenantName, deletionDate)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
