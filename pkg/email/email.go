package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	OpsEmail     string
	StoreName    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// Enabled reports whether SMTP is configured; callers skip dispatch otherwise
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != ""
}

// OrderEmailLine is one line item rendered in the order emails
type OrderEmailLine struct {
	Name     string
	Quantity string
	Total    string
}

// OrderEmailData carries everything the order templates render
type OrderEmailData struct {
	StoreName     string
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Phone         string
	Address       string
	PaymentMethod string
	Lines         []OrderEmailLine
	VoucherCodes  []string
	SubTotal      string
	ShippingCost  string
	Total         string
}

// SendOrderConfirmation sends the customer-facing confirmation listing any
// purchased voucher codes
func (s *EmailService) SendOrderConfirmation(data OrderEmailData) error {
	data.StoreName = s.config.StoreName

	htmlContent, err := renderTemplate("order_confirmation", orderConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Order %s confirmed - %s", data.OrderNumber, s.config.StoreName)
	message := s.buildHTMLEmail(data.CustomerEmail, subject, htmlContent)

	return s.sendEmail(data.CustomerEmail, message)
}

// SendOrderNotification sends the internal heads-up to store operations
func (s *EmailService) SendOrderNotification(data OrderEmailData) error {
	data.StoreName = s.config.StoreName

	htmlContent, err := renderTemplate("order_notification", orderNotificationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("New order %s", data.OrderNumber)
	message := s.buildHTMLEmail(s.config.OpsEmail, subject, htmlContent)

	return s.sendEmail(s.config.OpsEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func renderTemplate(name, text string, data OrderEmailData) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// orderConfirmationTemplate is the HTML template for customer confirmations
const orderConfirmationTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Order Confirmed</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #faf7f2;">
    <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff;">
        <tr>
            <td style="background-color: #2d3a2e; padding: 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 24px;">{{.StoreName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px;">
                <h2 style="color: #2d3a2e; margin: 0 0 16px 0;">Thank you, {{.CustomerName}}!</h2>
                <p style="color: #4a5568; font-size: 15px; line-height: 1.6;">
                    Your order <strong>{{.OrderNumber}}</strong> has been received.
                </p>
                <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
                    {{range .Lines}}
                    <tr>
                        <td style="padding: 8px 0; border-bottom: 1px solid #e2e8f0; color: #4a5568;">{{.Name}}</td>
                        <td style="padding: 8px 0; border-bottom: 1px solid #e2e8f0; color: #718096; text-align: center;">{{.Quantity}}</td>
                        <td style="padding: 8px 0; border-bottom: 1px solid #e2e8f0; color: #4a5568; text-align: right;">Rs. {{.Total}}</td>
                    </tr>
                    {{end}}
                    <tr>
                        <td colspan="2" style="padding: 8px 0; color: #718096;">Shipping</td>
                        <td style="padding: 8px 0; color: #4a5568; text-align: right;">Rs. {{.ShippingCost}}</td>
                    </tr>
                    <tr>
                        <td colspan="2" style="padding: 8px 0; color: #2d3a2e; font-weight: 600;">Total</td>
                        <td style="padding: 8px 0; color: #2d3a2e; font-weight: 600; text-align: right;">Rs. {{.Total}}</td>
                    </tr>
                </table>
                {{if .VoucherCodes}}
                <h3 style="color: #2d3a2e; margin: 24px 0 8px 0;">Your gift voucher codes</h3>
                <p style="color: #718096; font-size: 14px; margin: 0 0 12px 0;">
                    Each code is redeemable once, in store or online.
                </p>
                {{range .VoucherCodes}}
                <p style="font-family: monospace; font-size: 18px; color: #2d3a2e; background-color: #faf7f2; padding: 10px 16px; margin: 6px 0; letter-spacing: 2px;">{{.}}</p>
                {{end}}
                {{end}}
            </td>
        </tr>
        <tr>
            <td style="background-color: #faf7f2; padding: 20px; text-align: center;">
                <p style="color: #a0aec0; font-size: 13px; margin: 0;">{{.StoreName}} - Colombo, Sri Lanka</p>
            </td>
        </tr>
    </table>
</body>
</html>
`

// orderNotificationTemplate is the HTML template for the internal ops email
const orderNotificationTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>New Order</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;">
    <table role="presentation" style="max-width: 600px; margin: 0 auto;">
        <tr>
            <td style="padding: 20px;">
                <h2 style="color: #2d3a2e; margin: 0 0 12px 0;">New order {{.OrderNumber}}</h2>
                <p style="color: #4a5568; font-size: 14px; margin: 4px 0;">Customer: {{.CustomerName}} ({{.Phone}})</p>
                {{if .Address}}<p style="color: #4a5568; font-size: 14px; margin: 4px 0;">Deliver to: {{.Address}}</p>{{end}}
                <p style="color: #4a5568; font-size: 14px; margin: 4px 0;">Payment: {{.PaymentMethod}}</p>
                <table style="width: 100%; border-collapse: collapse; margin: 16px 0;">
                    {{range .Lines}}
                    <tr>
                        <td style="padding: 6px 0; border-bottom: 1px solid #e2e8f0; font-size: 14px;">{{.Name}}</td>
                        <td style="padding: 6px 0; border-bottom: 1px solid #e2e8f0; font-size: 14px; text-align: center;">{{.Quantity}}</td>
                        <td style="padding: 6px 0; border-bottom: 1px solid #e2e8f0; font-size: 14px; text-align: right;">Rs. {{.Total}}</td>
                    </tr>
                    {{end}}
                </table>
                <p style="color: #2d3a2e; font-size: 15px; font-weight: 600;">Total: Rs. {{.Total}}</p>
            </td>
        </tr>
    </table>
</body>
</html>
`
