package stores

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	myErr "lifeline-store/internal/types/errors"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lng1     float64
		lat2     float64
		lng2     float64
		expected float64
	}{
		{
			name:     "та же точка",
			lat1:     40.7484,
			lng1:     -73.9857,
			lat2:     40.7484,
			lng2:     -73.9857,
			expected: 0,
		},
		{
			name:     "Manhattan - Brooklyn",
			lat1:     40.7484,
			lng1:     -73.9857,
			lat2:     40.6840,
			lng2:     -73.9750,
			expected: 4.485,
		},
		{
			name:     "четверть экватора",
			lat1:     0,
			lng1:     0,
			lat2:     0,
			lng2:     90,
			expected: EarthRadiusMiles * math.Pi / 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, got, 0.01)
			assert.InDelta(t, got, Distance(tt.lat2, tt.lng2, tt.lat1, tt.lng1), 1e-9)
		})
	}
}

func TestStaticStoreRepository_Nearest(t *testing.T) {
	repo := NewStaticStoreRepository(zaptest.NewLogger(t).Sugar(), nil)

	tests := []struct {
		name        string
		lat         float64
		lng         float64
		expectedIDs []string
	}{
		{
			name:        "из Downtown",
			lat:         40.7484,
			lng:         -73.9857,
			expectedIDs: []string{"1", "2", "3", "4"},
		},
		{
			name:        "из Queens",
			lat:         40.7282,
			lng:         -73.8317,
			expectedIDs: []string{"4", "3", "1", "2"},
		},
		{
			name:        "рядом с Brooklyn",
			lat:         40.69,
			lng:         -73.98,
			expectedIDs: []string{"3", "1", "2", "4"},
		},
		{
			name:        "к северу от Midtown",
			lat:         40.76,
			lng:         -73.98,
			expectedIDs: []string{"2", "1", "3", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Nearest(tt.lat, tt.lng)
			require.NoError(t, err)
			require.Len(t, got, len(tt.expectedIDs))

			for i, loc := range got {
				assert.Equal(t, tt.expectedIDs[i], loc.ID)
				require.NotNil(t, loc.Distance)
				if i > 0 {
					assert.LessOrEqual(t, *got[i-1].Distance, *loc.Distance)
				}
			}
		})
	}
}

func TestStaticStoreRepository_NearestKeepsOrderOnTies(t *testing.T) {
	repo := NewStaticStoreRepository(zaptest.NewLogger(t).Sugar(), []Location{
		{ID: "b", Lat: 1, Lng: 0},
		{ID: "a", Lat: -1, Lng: 0},
		{ID: "c", Lat: 0, Lng: 0},
	})

	got, err := repo.Nearest(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestStaticStoreRepository_NearestBadCoordinates(t *testing.T) {
	repo := NewStaticStoreRepository(zaptest.NewLogger(t).Sugar(), nil)

	for _, c := range [][2]float64{{91, 0}, {0, -181}, {math.NaN(), 0}} {
		got, err := repo.Nearest(c[0], c[1])
		assert.ErrorIs(t, err, myErr.ErrBadCoordinates)
		assert.Nil(t, got)
	}
}

func TestStaticStoreRepository_ListHasNoDistance(t *testing.T) {
	repo := NewStaticStoreRepository(zaptest.NewLogger(t).Sugar(), nil)

	_, err := repo.Nearest(40.7484, -73.9857)
	require.NoError(t, err)

	list := repo.List()
	require.Len(t, list, 4)
	assert.Equal(t, "1", list[0].ID)
	for _, loc := range list {
		assert.Nil(t, loc.Distance)
	}
}
