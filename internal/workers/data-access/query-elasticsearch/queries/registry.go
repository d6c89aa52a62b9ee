// internal/workers/data-access/query-elasticsearch/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

type QueryResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, eq EventQuery) (*QueryResult, error) {
	if eq.Pagination.Size < 1 {
		eq.Pagination.Size = 20
	}
	if eq.Pagination.Size > 100 {
		eq.Pagination.Size = 100
	}

	req, err := BuildQuery(eq)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var body struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore *float64 `json:"max_score"`
			Hits     []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &QueryResult{
		TotalHits: body.Hits.Total.Value,
		Took:      body.Took,
	}
	if body.Hits.MaxScore != nil {
		result.MaxScore = *body.Hits.MaxScore
	}
	for _, hit := range body.Hits.Hits {
		result.Data = append(result.Data, hit.Source)
	}

	return result, nil
}
