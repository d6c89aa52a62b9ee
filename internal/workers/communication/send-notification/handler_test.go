// internal/workers/communication/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"volunteerhub-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSES struct {
	sent []*ses.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &ses.SendEmailOutput{}, nil
}

type fakeSNS struct {
	published []*sns.PublishInput
	err       error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.published = append(f.published, params)
	return &sns.PublishOutput{}, nil
}

func testConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "no-reply@volunteerhub.org",
		AWSRegion:    "us-east-1",
	}
}

func expectVolunteerContact(mock sqlmock.Sqlmock, email, phone string) {
	mock.ExpectQuery("SELECT email, phone FROM volunteers").
		WithArgs("vol-1").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).AddRow(email, phone))
}

func TestExecute_SendsEmailWithRenderedTemplate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectVolunteerContact(mock, "maria@example.com", "+17135550101")

	sesFake := &fakeSES{}
	snsFake := &fakeSNS{}
	handler := NewHandlerWithClients(testConfig(), db, logger.NewTestLogger(t), sesFake, snsFake)

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "vol-1",
		RecipientType:    RecipientTypeVolunteer,
		NotificationType: TypeAssignmentProposed,
		EventID:          "event-1",
		AssignmentID:     "assign-1",
		Metadata:         map[string]interface{}{"eventTitle": "Community Health Fair"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	require.Len(t, sesFake.sent, 1)
	body := *sesFake.sent[0].Message.Body.Text.Data
	assert.Contains(t, body, "Community Health Fair")
	assert.Contains(t, body, "event-1")
	assert.Contains(t, body, "assign-1")
	assert.NotContains(t, body, "{{")

	// Not high priority, so no SMS.
	assert.Empty(t, snsFake.published)
}

func TestExecute_HighPriorityAlsoSendsSMS(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectVolunteerContact(mock, "maria@example.com", "+17135550101")

	sesFake := &fakeSES{}
	snsFake := &fakeSNS{}
	handler := NewHandlerWithClients(testConfig(), db, logger.NewTestLogger(t), sesFake, snsFake)

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "vol-1",
		RecipientType:    RecipientTypeVolunteer,
		NotificationType: TypeEventReminder,
		Priority:         "high",
		Metadata:         map[string]interface{}{"eventTitle": "Flood Relief", "startTime": "2026-02-01T08:00:00Z"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	require.Len(t, sesFake.sent, 1)
	require.Len(t, snsFake.published, 1)
	assert.Equal(t, "+17135550101", *snsFake.published[0].PhoneNumber)
}

func TestExecute_EmailFailureReportsFailedStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectVolunteerContact(mock, "maria@example.com", "")

	sesFake := &fakeSES{err: fmt.Errorf("ses throttled")}
	handler := NewHandlerWithClients(testConfig(), db, logger.NewTestLogger(t), sesFake, &fakeSNS{})

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "vol-1",
		RecipientType:    RecipientTypeVolunteer,
		NotificationType: TypeAssignmentConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

func TestExecute_UnknownRecipientIsDisabledNotError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT email, phone FROM volunteers").
		WithArgs("vol-gone").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandlerWithClients(testConfig(), db, logger.NewTestLogger(t), &fakeSES{}, &fakeSNS{})

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "vol-gone",
		RecipientType:    RecipientTypeVolunteer,
		NotificationType: TypeAssignmentProposed,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestExecute_UnknownTemplateFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectVolunteerContact(mock, "maria@example.com", "")

	handler := NewHandlerWithClients(testConfig(), db, logger.NewTestLogger(t), &fakeSES{}, &fakeSNS{})

	_, err = handler.Execute(context.Background(), &Input{
		RecipientID:      "vol-1",
		RecipientType:    RecipientTypeVolunteer,
		NotificationType: "spam_everyone",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestExecute_DisabledChannelsSendNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectVolunteerContact(mock, "maria@example.com", "+17135550101")

	config := testConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false

	sesFake := &fakeSES{}
	snsFake := &fakeSNS{}
	handler := NewHandlerWithClients(config, db, logger.NewTestLogger(t), sesFake, snsFake)

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "vol-1",
		RecipientType:    RecipientTypeVolunteer,
		NotificationType: TypeEventReminder,
		Priority:         "high",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, sesFake.sent)
	assert.Empty(t, snsFake.published)
}

func TestRenderTemplate_StripsUnresolvedPlaceholders(t *testing.T) {
	rendered := renderTemplate("Hello {{name}}, event {{eventTitle}} starts soon.", map[string]interface{}{
		"name": "Maria",
	})
	assert.Equal(t, "Hello Maria, event  starts soon.", rendered)
}
