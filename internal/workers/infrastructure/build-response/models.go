// internal/workers/infrastructure/build-response/models.go
package buildresponse

type Input struct {
	TemplateID string                 `json:"templateId"`
	RequestID  string                 `json:"requestId"`
	Data       map[string]interface{} `json:"data"`
	// Message carries a human-readable note for empty outcomes, for
	// example when the matching pipeline found no candidates.
	Message string `json:"message,omitempty"`
}

type Output struct {
	Response ResponsePayload `json:"response"`
}

type ResponsePayload struct {
	RequestID string                 `json:"requestId"`
	Status    string                 `json:"status"` // "success" or "error"
	Data      map[string]interface{} `json:"data"`
	Message   string                 `json:"message,omitempty"`
	Metadata  ResponseMetadata       `json:"metadata"`
}

type ResponseMetadata struct {
	Timestamp string `json:"timestamp"` // ISO 8601
	Version   string `json:"version"`
}

// TemplateDefinition is one entry in the response-template registry.
type TemplateDefinition struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`     // match-result, assignment-summary, ...
	Schema   map[string]interface{} `json:"schema"`   // JSON Schema for validating Data
	Template map[string]interface{} `json:"template"` // base structure with {{placeholders}}
	Version  string                 `json:"version"`
}
