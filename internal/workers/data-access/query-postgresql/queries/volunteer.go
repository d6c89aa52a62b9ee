// internal/workers/data-access/query-postgresql/queries/volunteer.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func VolunteerProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	volunteerID, ok := params["volunteerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var firstName, lastName, email string
	var phone, address sql.NullString
	var lat, lon sql.NullFloat64
	var skills, availability, preferences []byte
	var createdAt time.Time

	err := db.QueryRowContext(ctx, `
		SELECT first_name, last_name, email, phone, address,
		       latitude, longitude, skills, availability, preferences, created_at
		FROM volunteers
		WHERE id = $1`, volunteerID).Scan(
		&firstName, &lastName, &email, &phone, &address,
		&lat, &lon, &skills, &availability, &preferences, &createdAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":        volunteerID,
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"phone":     phone.String,
		"address":   address.String,
		"createdAt": createdAt.UTC().Format(time.RFC3339),
	}
	if lat.Valid && lon.Valid {
		result["location"] = map[string]interface{}{
			"latitude":  lat.Float64,
			"longitude": lon.Float64,
		}
	}
	result["skills"] = decodeJSONColumn(skills)
	result["availability"] = decodeJSONColumn(availability)
	result["preferences"] = decodeJSONColumn(preferences)

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

// EventCandidates lists active volunteers who do not already hold an
// assignment for the event. The matching workers score this pool.
func EventCandidates(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	eventID, ok := params["eventId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	limit := 100
	if raw, ok := params["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT v.id, v.first_name, v.last_name, v.email,
		       v.latitude, v.longitude, v.skills, v.availability, v.preferences
		FROM volunteers v
		WHERE v.is_active = TRUE
		AND NOT EXISTS (
			SELECT 1 FROM assignments a
			WHERE a.volunteer_id = v.id AND a.event_id = $1
			AND a.status NOT IN ('declined', 'cancelled')
		)
		ORDER BY v.created_at
		LIMIT $2`, eventID, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, firstName, lastName, email string
		var lat, lon sql.NullFloat64
		var skills, availability, preferences []byte
		if err := rows.Scan(&id, &firstName, &lastName, &email,
			&lat, &lon, &skills, &availability, &preferences); err != nil {
			return nil, 0, 0, err
		}

		candidate := map[string]interface{}{
			"id":           id,
			"firstName":    firstName,
			"lastName":     lastName,
			"email":        email,
			"skills":       decodeJSONColumn(skills),
			"availability": decodeJSONColumn(availability),
			"preferences":  decodeJSONColumn(preferences),
		}
		if lat.Valid && lon.Valid {
			candidate["location"] = map[string]interface{}{
				"latitude":  lat.Float64,
				"longitude": lon.Float64,
			}
		}
		results = append(results, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func decodeJSONColumn(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	return decoded
}
