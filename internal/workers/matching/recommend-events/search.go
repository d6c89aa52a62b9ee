package recommendevents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"volunteerhub-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// EventSearchQuery constrains the open-event search.
type EventSearchQuery struct {
	Category string
	Urgency  string
	// Geo radius filter; applied only when Center is set and RadiusKm > 0.
	Center   *models.GeoPoint
	RadiusKm float64
	Size     int
}

// EventSearcher retrieves candidate events for recommendation scoring.
type EventSearcher interface {
	SearchEvents(ctx context.Context, query EventSearchQuery) ([]*models.Event, error)
}

// ESEventSearcher searches the events index in Elasticsearch.
type ESEventSearcher struct {
	client *elasticsearch.Client
	index  string
}

func NewESEventSearcher(client *elasticsearch.Client, index string) *ESEventSearcher {
	return &ESEventSearcher{client: client, index: index}
}

func (s *ESEventSearcher) SearchEvents(ctx context.Context, query EventSearchQuery) ([]*models.Event, error) {
	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"status": "open"}},
	}
	if query.Category != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"category": query.Category},
		})
	}
	if query.Urgency != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"urgency": query.Urgency},
		})
	}
	if query.Center != nil && query.RadiusKm > 0 {
		filters = append(filters, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%.1fkm", query.RadiusKm),
				"location": map[string]float64{
					"lat": query.Center.Latitude,
					"lon": query.Center.Longitude,
				},
			},
		})
	}

	size := query.Size
	if size <= 0 {
		size = 50
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filters,
			},
		},
		"sort": []map[string]interface{}{
			{"start_time": map[string]string{"order": "asc"}},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search events: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Event `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	events := make([]*models.Event, 0, len(parsed.Hits.Hits))
	for i := range parsed.Hits.Hits {
		event := parsed.Hits.Hits[i].Source
		events = append(events, &event)
	}
	return events, nil
}
