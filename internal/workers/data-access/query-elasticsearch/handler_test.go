// internal/workers/data-access/query-elasticsearch/handler_test.go
package queryelasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/workers/data-access/query-elasticsearch/queries"
)

// ==========================
// Test Helper Functions
// ==========================

// newFakeElasticsearch serves a canned search response and captures the
// request body so tests can inspect the generated query.
func newFakeElasticsearch(t *testing.T, response string, capture *map[string]interface{}) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil && r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			if len(body) > 0 {
				var decoded map[string]interface{}
				if err := json.Unmarshal(body, &decoded); err == nil {
					*capture = decoded
				}
			}
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func createTestHandler(t *testing.T, client *elasticsearch.Client) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), client, logger.NewTestLogger(t))
}

const searchResponse = `{
	"took": 4,
	"hits": {
		"total": {"value": 2},
		"max_score": 1.7,
		"hits": [
			{"_source": {"id": "event-1", "title": "Community Health Fair", "category": "health"}},
			{"_source": {"id": "event-2", "title": "Food Bank Drive", "category": "food-security"}}
		]
	}
}`

func TestExecute_SearchEventsReturnsHits(t *testing.T) {
	var captured map[string]interface{}
	client := newFakeElasticsearch(t, searchResponse, &captured)
	handler := createTestHandler(t, client)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "search_events",
		Filters: map[string]interface{}{
			"keywords": "health fair",
			"urgency":  "HIGH",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.TotalHits)
	assert.Equal(t, 1.7, output.MaxScore)
	assert.Equal(t, int64(4), output.Took)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "event-1", output.Data[0]["id"])

	// Generated query keeps the open-status filter and the keyword clause.
	boolQuery := captured["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotEmpty(t, boolQuery["filter"])
	assert.NotEmpty(t, boolQuery["must"])
}

func TestExecute_GeoFilterIsIncluded(t *testing.T) {
	var captured map[string]interface{}
	client := newFakeElasticsearch(t, searchResponse, &captured)
	handler := createTestHandler(t, client)

	_, err := handler.Execute(context.Background(), &Input{
		QueryType: "search_events",
		Filters: map[string]interface{}{
			"near": map[string]interface{}{
				"latitude":  29.7604,
				"longitude": -95.3698,
				"radiusKm":  25.0,
			},
		},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(captured)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "geo_distance")
	assert.Contains(t, string(raw), "25.0km")
}

func TestExecute_EventsByCategory(t *testing.T) {
	var captured map[string]interface{}
	client := newFakeElasticsearch(t, searchResponse, &captured)
	handler := createTestHandler(t, client)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "events_by_category",
		Category:  "health",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), output.TotalHits)

	raw, err := json.Marshal(captured)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"category":"health"`)
	assert.Contains(t, string(raw), "start_time")
}

func TestExecute_UnknownQueryTypeFails(t *testing.T) {
	client := newFakeElasticsearch(t, searchResponse, nil)
	handler := createTestHandler(t, client)

	_, err := handler.Execute(context.Background(), &Input{QueryType: "delete_everything"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchQueryFailed)
}

func TestBuildQuery_MissingIndexFails(t *testing.T) {
	_, err := queries.BuildQuery(queries.EventQuery{QueryType: "search_events"})
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrMissingIndex)
}

func TestBuildQuery_DefaultGeoRadius(t *testing.T) {
	eq := queries.EventQuery{
		Index:     "events",
		QueryType: "search_events",
		Filters: map[string]interface{}{
			"near": map[string]interface{}{
				"latitude":  29.7604,
				"longitude": -95.3698,
			},
		},
	}
	req, err := queries.BuildQuery(eq)
	require.NoError(t, err)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "50.0km")
}
