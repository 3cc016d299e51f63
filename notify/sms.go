// Package notify sends operator alerts for unattended batch rendering.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier receives render outcome alerts.
type Notifier interface {
	JobFailed(jobID, contentType, errMsg string)
	JobCompleted(jobID, contentType, outputPath string)
}

// SMSNotifier delivers alerts over Twilio SMS. Renders run for hours with
// nobody watching; a failure needs to reach an operator's phone.
type SMSNotifier struct {
	logger     *slog.Logger
	client     *twilio.RestClient
	fromNumber string
	toNumber   string
	onComplete bool
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
	// NotifyOnComplete also sends an SMS for successful renders.
	NotifyOnComplete bool
}

func NewSMSNotifier(logger *slog.Logger, cfg SMSConfig) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSNotifier{
		logger:     logger,
		client:     client,
		fromNumber: cfg.FromNumber,
		toNumber:   cfg.ToNumber,
		onComplete: cfg.NotifyOnComplete,
	}
}

func (n *SMSNotifier) JobFailed(jobID, contentType, errMsg string) {
	body := fmt.Sprintf("Render %s (%s) failed: %s", jobID, contentType, truncate(errMsg, 120))
	n.send(body)
}

func (n *SMSNotifier) JobCompleted(jobID, contentType, outputPath string) {
	if !n.onComplete {
		return
	}
	body := fmt.Sprintf("Render %s (%s) completed: %s", jobID, contentType, outputPath)
	n.send(body)
}

func (n *SMSNotifier) send(body string) {
	params := &twilioApi.CreateMessageParams{
		To:   &n.toNumber,
		From: &n.fromNumber,
		Body: &body,
	}

	message, err := n.client.Api.CreateMessage(params)
	if err != nil {
		n.logger.Error("Failed to send SMS alert",
			slog.String("error", err.Error()),
			slog.String("to", n.toNumber))
		return
	}

	sid := ""
	if message.Sid != nil {
		sid = *message.Sid
	}
	n.logger.Info("Sent SMS alert", slog.String("message_sid", sid))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
