package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"houston downtown", 29.7604, -95.3698, 29.7520, -95.3720},
		{"cross hemisphere", 51.5074, -0.1278, -33.8688, 151.2093},
		{"antimeridian", 0, 179.9, 0, -179.9},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			forward := DistanceKm(p.lat1, p.lon1, p.lat2, p.lon2)
			reverse := DistanceKm(p.lat2, p.lon2, p.lat1, p.lon1)
			assert.InDelta(t, forward, reverse, 1e-9)
			assert.GreaterOrEqual(t, forward, 0.0)
		})
	}
}

func TestDistanceKm_IdenticalPointsAreZero(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(29.7604, -95.3698, 29.7604, -95.3698))
	assert.Equal(t, 0.0, DistanceKm(0, 0, 0, 0))
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	// Downtown Houston points roughly a kilometer apart.
	d := DistanceKm(29.7604, -95.3698, 29.7520, -95.3720)
	assert.InDelta(t, 0.96, d, 0.1)

	// London to Paris, ~343 km great-circle.
	d = DistanceKm(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 343, d, 5)
}
