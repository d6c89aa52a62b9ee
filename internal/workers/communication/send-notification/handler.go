// internal/workers/communication/send-notification/handler.go
package sendnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	awsclients "volunteerhub-workers/internal/common/aws"
	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrTemplateNotFound       = errors.New("TEMPLATE_NOT_FOUND")
)

// SES and SNS interfaces allow tests to substitute fakes.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config      *Config
	db          *sql.DB
	logger      logger.Logger
	sesClient   SESService
	snsClient   SNSService
	templateMap map[string]map[string]string
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	ctx := context.Background()

	sesClient, err := awsclients.NewSESClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("create SES client: %w", err)
	}
	snsClient, err := awsclients.NewSNSClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("create SNS client: %w", err)
	}

	return NewHandlerWithClients(config, db, log, sesClient, snsClient), nil
}

func NewHandlerWithClients(config *Config, db *sql.DB, log logger.Logger, sesClient SESService, snsClient SNSService) *Handler {
	return &Handler{
		config:      config,
		db:          db,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient:   sesClient,
		snsClient:   snsClient,
		templateMap: loadTemplates(),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "NOTIFICATION_SEND_FAILED"
		if errors.Is(err, ErrTemplateNotFound) {
			errorCode = "TEMPLATE_NOT_FOUND"
		}
		h.failJob(client, job, errorCode, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email, phone, err := h.getRecipientContact(ctx, input.RecipientID, input.RecipientType)
	if err != nil {
		// Unknown recipient means nothing to deliver, not a process failure.
		h.logger.Warn("recipient not found", map[string]interface{}{
			"recipientId": input.RecipientID,
			"type":        input.RecipientType,
		})
		return &Output{
			NotificationID: uuid.New().String(),
			Status:         StatusDisabled,
			SentAt:         time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	template, exists := h.templateMap[input.NotificationType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, input.NotificationType)
	}

	data := map[string]interface{}{
		"recipientId":      input.RecipientID,
		"notificationType": input.NotificationType,
		"eventId":          input.EventID,
		"assignmentId":     input.AssignmentID,
		"priority":         input.Priority,
	}
	for key, value := range input.Metadata {
		data[key] = value
	}

	subject := renderTemplate(template["subject"], data)
	body := renderTemplate(template["body"], data)

	sentAt := time.Now().UTC().Format(time.RFC3339)
	notificationID := uuid.New().String()

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			metrics.NotificationsSent.WithLabelValues("email", StatusFailed).Inc()
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		metrics.NotificationsSent.WithLabelValues("email", StatusSent).Inc()
		emailSent = true
	}

	// SMS is reserved for high-priority notifications.
	if h.config.SMSEnabled && phone != "" && input.Priority == "high" {
		if err := h.sendSMS(ctx, phone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
			metrics.NotificationsSent.WithLabelValues("sms", StatusFailed).Inc()
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		metrics.NotificationsSent.WithLabelValues("sms", StatusSent).Inc()
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"notificationId": notificationID,
		"recipientId":    input.RecipientID,
		"type":           input.NotificationType,
		"status":         status,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		SentAt:         sentAt,
	}, nil
}

func (h *Handler) getRecipientContact(ctx context.Context, recipientID, recipientType string) (string, string, error) {
	var query string
	switch recipientType {
	case RecipientTypeVolunteer:
		query = `SELECT email, phone FROM volunteers WHERE id = $1`
	case RecipientTypeOrganizer:
		query = `SELECT email, phone FROM organizers WHERE id = $1`
	default:
		return "", "", fmt.Errorf("invalid recipient type: %s", recipientType)
	}

	var email string
	var phone sql.NullString
	err := h.db.QueryRowContext(ctx, query, recipientID).Scan(&email, &phone)
	return email, phone.String, err
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// renderTemplate substitutes {{placeholder}} values and strips any
// placeholders left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for key, value := range data {
		placeholder := "{{" + key + "}}"
		rendered := ""
		switch v := value.(type) {
		case string:
			rendered = v
		case int:
			rendered = fmt.Sprintf("%d", v)
		default:
			if v != nil {
				rendered = fmt.Sprintf("%v", v)
			}
		}
		result = strings.ReplaceAll(result, placeholder, rendered)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

func loadTemplates() map[string]map[string]string {
	return map[string]map[string]string{
		TypeAssignmentProposed: {
			"subject": "You Have Been Matched With a Volunteer Event",
			"body":    "Hello! You were matched with event {{eventTitle}} ({{eventId}}). Please confirm your assignment {{assignmentId}}.",
		},
		TypeAssignmentConfirmed: {
			"subject": "Volunteer Assignment Confirmed",
			"body":    "Your assignment {{assignmentId}} for event {{eventTitle}} is confirmed. See you there!",
		},
		TypeEventReminder: {
			"subject": "Upcoming Volunteer Event Reminder",
			"body":    "Reminder: event {{eventTitle}} starts at {{startTime}}. Thank you for volunteering!",
		},
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
