// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeVolunteerProfile QueryType = "volunteer_profile"
	QueryTypeEventDetails     QueryType = "event_details"
	QueryTypeEventCandidates  QueryType = "event_candidates"
	QueryTypeEventAssignments QueryType = "event_assignments"

	QueryTypeSearchEvents     QueryType = "search_events"
	QueryTypeEventsByCategory QueryType = "events_by_category"
)
