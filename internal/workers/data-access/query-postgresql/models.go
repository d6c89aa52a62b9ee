// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "volunteerhub-workers/internal/models"

type Input struct {
	QueryType   QueryType              `json:"queryType"`
	VolunteerID string                 `json:"volunteerId,omitempty"`
	EventID     string                 `json:"eventId,omitempty"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeVolunteerProfile = models.QueryTypeVolunteerProfile
	QueryTypeEventDetails     = models.QueryTypeEventDetails
	QueryTypeEventCandidates  = models.QueryTypeEventCandidates
	QueryTypeEventAssignments = models.QueryTypeEventAssignments
)
