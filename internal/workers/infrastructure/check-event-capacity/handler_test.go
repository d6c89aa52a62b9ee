// internal/workers/infrastructure/check-event-capacity/handler_test.go
package checkeventcapacity

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"volunteerhub-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, db *sql.DB, redisClient *redis.Client) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), db, redisClient, logger.NewTestLogger(t))
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func expectCapacityQuery(mock sqlmock.Sqlmock, eventID string, max, current int) {
	mock.ExpectQuery("SELECT max_volunteers").
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"max_volunteers", "current_volunteers"}).
			AddRow(max, current))
}

func TestExecute_ReportsOpenSlots(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectCapacityQuery(mock, "event-1", 10, 4)

	handler := createTestHandler(t, db, newRedis(t))

	output, err := handler.Execute(context.Background(), &Input{EventID: "event-1"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "event-1", output.EventID)
	assert.Equal(t, 6, output.OpenSlots)
	assert.False(t, output.AtCapacity)
	assert.Empty(t, output.Message)
}

func TestExecute_AtCapacityIsOutcomeNotError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectCapacityQuery(mock, "event-1", 5, 5)

	handler := createTestHandler(t, db, newRedis(t))

	output, err := handler.Execute(context.Background(), &Input{EventID: "event-1"})
	require.NoError(t, err)

	assert.True(t, output.AtCapacity)
	assert.Equal(t, 0, output.OpenSlots)
	assert.NotEmpty(t, output.Message)
}

func TestExecute_OverbookedEventClampsToZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectCapacityQuery(mock, "event-1", 5, 7)

	handler := createTestHandler(t, db, newRedis(t))

	output, err := handler.Execute(context.Background(), &Input{EventID: "event-1"})
	require.NoError(t, err)

	assert.Equal(t, 0, output.OpenSlots)
	assert.True(t, output.AtCapacity)
}

func TestExecute_CachesCapacityBetweenJobs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Only one database round trip expected across two executions.
	expectCapacityQuery(mock, "event-1", 10, 2)

	handler := createTestHandler(t, db, newRedis(t))

	first, err := handler.Execute(context.Background(), &Input{EventID: "event-1"})
	require.NoError(t, err)
	second, err := handler.Execute(context.Background(), &Input{EventID: "event-1"})
	require.NoError(t, err)

	assert.Equal(t, first.OpenSlots, second.OpenSlots)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_MissingEventFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT max_volunteers").
		WithArgs("event-gone").
		WillReturnError(sql.ErrNoRows)

	handler := createTestHandler(t, db, newRedis(t))

	_, err = handler.Execute(context.Background(), &Input{EventID: "event-gone"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestExecute_MissingEventIDFails(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := createTestHandler(t, db, newRedis(t))

	_, err = handler.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ServedFromCacheWithoutDatabase(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	cached, err := json.Marshal(Capacity{EventID: "event-9", MaxVolunteers: 8, CurrentVolunteers: 3})
	require.NoError(t, err)
	redisMock.ExpectGet("event:capacity:event-9").SetVal(string(cached))

	// nil *sql.DB: a cache hit must never reach the database.
	handler := createTestHandler(t, nil, redisClient)

	output, err := handler.Execute(context.Background(), &Input{EventID: "event-9"})
	require.NoError(t, err)
	require.NoError(t, redisMock.ExpectationsWereMet())

	assert.Equal(t, 5, output.OpenSlots)
	assert.False(t, output.AtCapacity)
}
