// internal/workers/data-access/query-postgresql/queries/event.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func EventDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	eventID, ok := params["eventId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var title, urgency, category string
	var description sql.NullString
	var lat, lon sql.NullFloat64
	var startTime, endTime time.Time
	var maxVolunteers, currentVolunteers int
	var requirements []byte

	err := db.QueryRowContext(ctx, `
		SELECT title, description, latitude, longitude, start_time, end_time,
		       urgency, category, max_volunteers, current_volunteers, skill_requirements
		FROM events
		WHERE id = $1`, eventID).Scan(
		&title, &description, &lat, &lon, &startTime, &endTime,
		&urgency, &category, &maxVolunteers, &currentVolunteers, &requirements,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":                eventID,
		"title":             title,
		"description":       description.String,
		"startTime":         startTime.UTC().Format(time.RFC3339),
		"endTime":           endTime.UTC().Format(time.RFC3339),
		"urgency":           urgency,
		"category":          category,
		"maxVolunteers":     maxVolunteers,
		"currentVolunteers": currentVolunteers,
		"skillRequirements": decodeJSONColumn(requirements),
	}
	if lat.Valid && lon.Valid {
		result["location"] = map[string]interface{}{
			"latitude":  lat.Float64,
			"longitude": lon.Float64,
		}
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func EventAssignments(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	eventID, ok := params["eventId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, volunteer_id, match_score, match_quality, status, created_at
		FROM assignments
		WHERE event_id = $1
		ORDER BY match_score DESC`, eventID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, volunteerID, matchQuality, status string
		var matchScore int
		var createdAt time.Time
		if err := rows.Scan(&id, &volunteerID, &matchScore, &matchQuality, &status, &createdAt); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":           id,
			"volunteerId":  volunteerID,
			"matchScore":   matchScore,
			"matchQuality": matchQuality,
			"status":       status,
			"createdAt":    createdAt.UTC().Format(time.RFC3339),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
