// Package mail sends transactional claim emails over SMTP. Every send is
// attempt-once; callers log and continue on failure.
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const smtpHost = "smtp.gmail.com"
const smtpAddr = "smtp.gmail.com:587"

type Service struct {
	smtpUser     string
	smtpPassword string
	mailFrom     string
	mailFromName string
}

func NewService(smtpUser, smtpPassword, mailFrom, mailFromName string) *Service {
	return &Service{
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
	}
}

type ClaimConfirmation struct {
	ClaimID               string
	PassengerName         string
	FlightNumber          string
	FlightDate            string
	EstimatedCompensation *float64
	CommissionAmount      *float64
}

type StatusUpdate struct {
	ClaimID       string
	PassengerName string
	NewStatus     string
	StatusMessage string
}

type PaymentConfirmation struct {
	ClaimID            string
	PassengerName      string
	AmountReceived     float64
	CommissionDeducted float64
	FinalAmount        float64
}

type CommissionInvoice struct {
	ClaimID             string
	PassengerName       string
	CompensationAmount  float64
	CommissionAmount    float64
	PaymentInstructions string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Claim Submitted Successfully</h2>
  <p>Dear {{.PassengerName}},</p>
  <p>Thank you for submitting your flight compensation claim. We've received your information and are now reviewing your case.</p>
  <h3>Claim Details</h3>
  <p><strong>Claim ID:</strong> {{.ClaimID}}</p>
  <p><strong>Flight:</strong> {{.FlightNumber}} on {{.FlightDate}}</p>
  <h3>Commission Structure</h3>
  <p>{{.CommissionText}}</p>
  <p><strong>No win, no fee guarantee</strong> - You only pay if we successfully recover compensation for you.</p>
  <p>You can track your claim status at any time using your Claim ID.</p>
  <p>Best regards,<br>YUL Flight Delay Compensation</p>
</div>`))

var statusUpdateTmpl = template.Must(template.New("status").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Claim Status Update</h2>
  <p>Dear {{.PassengerName}},</p>
  <p>We have an update on your flight compensation claim.</p>
  <h3>Status: {{.NewStatus}}</h3>
  <p>{{.StatusMessage}}</p>
  <p>You can track your claim progress anytime using Claim ID: {{.ClaimID}}</p>
  <p>Best regards,<br>YUL Flight Delay Compensation</p>
</div>`))

var paymentTmpl = template.Must(template.New("payment").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Payment Processed Successfully</h2>
  <p>Dear {{.PassengerName}},</p>
  <p>Your compensation has been processed and the funds are being transferred to your account.</p>
  <h3>Payment Breakdown</h3>
  <p><strong>Total Compensation Received:</strong> ${{printf "%.2f" .AmountReceived}}</p>
  <p><strong>Commission Deducted (15%):</strong> ${{printf "%.2f" .CommissionDeducted}}</p>
  <p><strong>Amount Transferred to You:</strong> ${{printf "%.2f" .FinalAmount}}</p>
  <p>Funds should appear in your account within 1-2 business days.</p>
  <p>Best regards,<br>YUL Flight Delay Compensation</p>
</div>`))

var invoiceTmpl = template.Must(template.New("invoice").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Commission Payment Required</h2>
  <p>Dear {{.PassengerName}},</p>
  <p>Great news! Your flight compensation claim has been successful. The airline has paid your compensation directly.</p>
  <h3>Payment Summary</h3>
  <p><strong>Total Compensation:</strong> ${{printf "%.2f" .CompensationAmount}}</p>
  <p><strong>Our Commission (15%):</strong> ${{printf "%.2f" .CommissionAmount}}</p>
  <h3>Payment Instructions</h3>
  <p>{{.PaymentInstructions}}</p>
  <p>Best regards,<br>YUL Flight Delay Compensation Billing</p>
</div>`))

func (s *Service) SendClaimConfirmation(to string, data ClaimConfirmation) error {
	commissionText := "Our 15% commission only applies if your claim is successful."
	if data.EstimatedCompensation != nil && data.CommissionAmount != nil {
		commissionText = fmt.Sprintf(
			"If successful, our 15%% commission would be $%.2f, and you would receive $%.2f.",
			*data.CommissionAmount, *data.EstimatedCompensation-*data.CommissionAmount,
		)
	}

	body, err := render(confirmationTmpl, struct {
		ClaimConfirmation
		CommissionText string
	}{data, commissionText})
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Claim Confirmation - %s", data.ClaimID), body)
}

func (s *Service) SendStatusUpdate(to string, data StatusUpdate) error {
	body, err := render(statusUpdateTmpl, data)
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Claim Update - %s", data.ClaimID), body)
}

func (s *Service) SendPaymentConfirmation(to string, data PaymentConfirmation) error {
	body, err := render(paymentTmpl, data)
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Payment Processed - %s", data.ClaimID), body)
}

func (s *Service) SendCommissionInvoice(to string, data CommissionInvoice) error {
	body, err := render(invoiceTmpl, data)
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Commission Invoice - Claim %s", data.ClaimID), body)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Service) send(to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s", to, smtpAddr)

	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *Service) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline covers the whole SMTP conversation
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
