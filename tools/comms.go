package tools

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"cognito/config"
)

// CommTools backs send_email and send_whatsapp. Either tool reports a
// runtime failure when its credentials are not configured.
type CommTools struct {
	email         config.EmailConfig
	emailPassword string

	twilio          config.TwilioConfig
	twilioAuthToken string
	twilioClient    *twilio.RestClient
}

func NewCommTools(cfg *config.Config) *CommTools {
	c := &CommTools{
		email:           cfg.Email,
		emailPassword:   cfg.EmailPassword,
		twilio:          cfg.Twilio,
		twilioAuthToken: cfg.TwilioAuthToken,
	}
	if c.twilio.AccountSID != "" && c.twilioAuthToken != "" {
		c.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: c.twilio.AccountSID,
			Password: c.twilioAuthToken,
		})
	}
	return c
}

func (c *CommTools) EmailSpec() Spec {
	return Spec{
		Name:        "send_email",
		Description: "Send an email from the configured account.",
		Params: map[string]Param{
			"to":      {Type: "string", Description: "Recipient email address", Required: true},
			"subject": {Type: "string", Description: "Email subject line", Required: true},
			"body":    {Type: "string", Description: "Email body text", Required: true},
		},
		Handler: c.sendEmail,
	}
}

func (c *CommTools) WhatsAppSpec() Spec {
	return Spec{
		Name:        "send_whatsapp",
		Description: "Send a WhatsApp message via the configured Twilio account.",
		Params: map[string]Param{
			"to":   {Type: "string", Description: "Recipient number, e.g. +15551234567", Required: true},
			"body": {Type: "string", Description: "Message text", Required: true},
		},
		Handler: c.sendWhatsApp,
	}
}

func (c *CommTools) sendEmail(ctx context.Context, args map[string]any) (any, error) {
	if c.email.Address == "" || c.emailPassword == "" {
		return nil, fmt.Errorf("email is not configured (set [email] address and COGNITO_EMAIL_PASSWORD)")
	}

	to, _ := args["to"].(string)
	subject, _ := args["subject"].(string)
	body, _ := args["body"].(string)
	if !strings.Contains(to, "@") {
		return nil, fmt.Errorf("invalid recipient address: %q", to)
	}

	msg := []byte("From: " + c.email.Address + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", c.email.SMTPHost, c.email.SMTPPort)
	auth := smtp.PlainAuth("", c.email.Address, c.emailPassword, c.email.SMTPHost)

	if err := smtp.SendMail(addr, auth, c.email.Address, []string{to}, msg); err != nil {
		return nil, fmt.Errorf("smtp send failed: %w", err)
	}

	return fmt.Sprintf("Email sent to %s", to), nil
}

func (c *CommTools) sendWhatsApp(ctx context.Context, args map[string]any) (any, error) {
	if c.twilioClient == nil {
		return nil, fmt.Errorf("twilio is not configured (set [twilio] account_sid, from_number and COGNITO_TWILIO_AUTH_TOKEN)")
	}

	to, _ := args["to"].(string)
	body, _ := args["body"].(string)
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.twilio.FromNumber)
	params.SetBody(body)

	resp, err := c.twilioClient.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio send failed: %w", err)
	}

	status := "queued"
	if resp.Status != nil {
		status = *resp.Status
	}
	return fmt.Sprintf("WhatsApp message to %s: %s", to, status), nil
}
