// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMatchScoreFailed     ErrorCode = "MATCH_SCORE_FAILED"
	ErrCodeRankingFailed        ErrorCode = "RANKING_FAILED"
	ErrCodeRecommendationFailed ErrorCode = "RECOMMENDATION_FAILED"
	ErrCodeOptimizationFailed   ErrorCode = "OPTIMIZATION_FAILED"
	ErrCodeVolunteerNotFound    ErrorCode = "VOLUNTEER_NOT_FOUND"
	ErrCodeEventNotFound        ErrorCode = "EVENT_NOT_FOUND"

	ErrCodeEventAtCapacity      ErrorCode = "EVENT_AT_CAPACITY"
	ErrCodeCapacityCheckFailed  ErrorCode = "CAPACITY_CHECK_FAILED"
	ErrCodeDuplicateAssignment  ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrCodeAssignmentFailed     ErrorCode = "ASSIGNMENT_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeTemplateNotFound         ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateValidationFailed ErrorCode = "TEMPLATE_VALIDATION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewVolunteerNotFoundError(volunteerID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVolunteerNotFound,
		Message:   "Volunteer not found",
		Details:   fmt.Sprintf("volunteer %s does not exist", volunteerID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewEventNotFoundError(eventID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventNotFound,
		Message:   "Event not found",
		Details:   fmt.Sprintf("event %s does not exist", eventID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMatchScoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchScoreFailed,
		Message:   "Match score calculation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewEventAtCapacityError(eventID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventAtCapacity,
		Message:   "Event has no open volunteer slots",
		Details:   fmt.Sprintf("event %s is at capacity", eventID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDuplicateAssignmentError(volunteerID, eventID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateAssignment,
		Message:   "Volunteer already assigned to event",
		Details:   fmt.Sprintf("assignment already exists for volunteer %s and event %s", volunteerID, eventID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Query execution failed",
		Details:   fmt.Sprintf("query %s: %v", queryType, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Query timed out",
		Details:   fmt.Sprintf("query %s exceeded its deadline", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidQueryTypeError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQueryType,
		Message:   "Invalid query type",
		Details:   fmt.Sprintf("query type %s is not registered", queryType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query failed",
		Details:   fmt.Sprintf("search %s: %v", queryType, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewSearchTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Search timed out",
		Details:   fmt.Sprintf("search %s exceeded its deadline", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Search index not found",
		Details:   fmt.Sprintf("index %s does not exist", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewTemplateNotFoundError(templateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "Response template not found",
		Details:   fmt.Sprintf("template %s is not registered", templateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewTemplateValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateValidationFailed,
		Message:   "Template data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("notification %s: %v", notificationType, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrorCode(fmt.Sprintf("%s_SERVICE_ERROR", strings.ToUpper(service))),
		Message:   fmt.Sprintf("External service %s failed", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrorCode(fmt.Sprintf("%s_TIMEOUT", strings.ToUpper(service))),
		Message:   fmt.Sprintf("External service %s timed out", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      ErrorCode(fmt.Sprintf("%s_NOT_FOUND", strings.ToUpper(service))),
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_FAILED",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (identical by
// convention; kept explicit so renames stay deliberate).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMatchScoreFailed:              "MATCH_SCORE_FAILED",
	ErrCodeRankingFailed:                 "RANKING_FAILED",
	ErrCodeRecommendationFailed:          "RECOMMENDATION_FAILED",
	ErrCodeOptimizationFailed:            "OPTIMIZATION_FAILED",
	ErrCodeVolunteerNotFound:             "VOLUNTEER_NOT_FOUND",
	ErrCodeEventNotFound:                 "EVENT_NOT_FOUND",
	ErrCodeEventAtCapacity:               "EVENT_AT_CAPACITY",
	ErrCodeCapacityCheckFailed:           "CAPACITY_CHECK_FAILED",
	ErrCodeDuplicateAssignment:           "DUPLICATE_ASSIGNMENT",
	ErrCodeAssignmentFailed:              "ASSIGNMENT_FAILED",
	ErrCodeDatabaseInsertFailed:          "DATABASE_INSERT_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeInvalidQueryType:              "INVALID_QUERY_TYPE",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchQueryFailed:             "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:                 "INDEX_NOT_FOUND",
	ErrCodeTemplateNotFound:              "TEMPLATE_NOT_FOUND",
	ErrCodeTemplateValidationFailed:      "TEMPLATE_VALIDATION_FAILED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCapacityCheckFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MATCH") || strings.Contains(codeStr, "RANKING") ||
		strings.Contains(codeStr, "RECOMMENDATION") || strings.Contains(codeStr, "OPTIMIZATION"):
		return "MATCHING"
	case strings.Contains(codeStr, "CAPACITY") || strings.Contains(codeStr, "ASSIGNMENT"):
		return "ASSIGNMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") ||
		strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "TEMPLATE"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
