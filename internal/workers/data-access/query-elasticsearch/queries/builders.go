// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// EventQuery describes one search against the events index.
type EventQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	Category   string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request for the query type.
func BuildQuery(eq EventQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "search_events":
		queryBody = buildEventSearchQuery(eq)
	case "events_by_category":
		queryBody = buildEventsByCategoryQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{eq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &eq.Pagination.From,
		Size:  &eq.Pagination.Size,
	}

	return &req, nil
}

// buildEventSearchQuery combines free-text search with structured filters.
func buildEventSearchQuery(eq EventQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": "open"},
		},
	}

	if keywords, ok := eq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"title^3", "description^2", "category"},
				"type":   "best_fields",
			},
		})
	}

	if category, ok := eq.Filters["category"].(string); ok && category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	} else if eq.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": eq.Category},
		})
	}

	if urgency, ok := eq.Filters["urgency"].(string); ok && urgency != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"urgency": urgency},
		})
	}

	if geo, ok := eq.Filters["near"].(map[string]interface{}); ok {
		lat, latOK := toFloat(geo["latitude"])
		lon, lonOK := toFloat(geo["longitude"])
		radius, radiusOK := toFloat(geo["radiusKm"])
		if latOK && lonOK {
			if !radiusOK || radius <= 0 {
				radius = 50
			}
			filterClauses = append(filterClauses, map[string]interface{}{
				"geo_distance": map[string]interface{}{
					"distance": fmt.Sprintf("%.1fkm", radius),
					"location": map[string]interface{}{
						"lat": lat,
						"lon": lon,
					},
				},
			})
		}
	}

	if dateRange, ok := eq.Filters["dateRange"].(map[string]interface{}); ok {
		rangeClause := map[string]interface{}{}
		if from, ok := dateRange["from"].(string); ok && from != "" {
			rangeClause["gte"] = from
		}
		if to, ok := dateRange["to"].(string); ok && to != "" {
			rangeClause["lte"] = to
		}
		if len(rangeClause) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"start_time": rangeClause},
			})
		}
	}

	boolQuery := map[string]interface{}{"filter": filterClauses}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"start_time": map[string]interface{}{"order": "asc"}},
		},
	}
}

// buildEventsByCategoryQuery returns upcoming open events in one category,
// soonest first.
func buildEventsByCategoryQuery(eq EventQuery) map[string]interface{} {
	category := eq.Category
	if fromFilters, ok := eq.Filters["category"].(string); ok && fromFilters != "" {
		category = fromFilters
	}

	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": "open"},
		},
		map[string]interface{}{
			"range": map[string]interface{}{
				"start_time": map[string]interface{}{"gte": "now"},
			},
		},
	}
	if category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filterClauses},
		},
		"sort": []interface{}{
			map[string]interface{}{"start_time": map[string]interface{}{"order": "asc"}},
		},
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
