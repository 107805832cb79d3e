package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	accounts := map[string]Account{
		"a": {Identifier: "a"},
		"b": {Identifier: "b"},
		"c": {Identifier: "c"},
	}
	submissions := []Submission{
		{Identifier: "a", Prediction: "Apple healthy", Timestamp: t0},
		{Identifier: "a", Prediction: "Tomato Late blight", Timestamp: t0.Add(time.Hour)},
		{Identifier: "b", Prediction: "Apple healthy", Timestamp: t0.Add(2 * time.Hour)},
	}

	stats := ComputeStats(accounts, submissions)

	assert.Equal(t, 3, stats.TotalAccounts)
	assert.Equal(t, 3, stats.TotalSubmissions)
	assert.Equal(t, 2, stats.ActiveUsers)
	require.Len(t, stats.Labels, 2)
	assert.Equal(t, LabelCount{Prediction: "Apple healthy", Count: 2}, stats.Labels[0])
	require.NotNil(t, stats.FirstSubmission)
	assert.True(t, stats.FirstSubmission.Equal(t0))
	assert.True(t, stats.LastSubmission.Equal(t0.Add(2*time.Hour)))
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil)
	assert.Zero(t, stats.TotalSubmissions)
	assert.Nil(t, stats.FirstSubmission)
	assert.Empty(t, stats.Labels)
}

func TestClampTimestamp(t *testing.T) {
	t0 := time.Now()
	assert.Equal(t, t0, ClampTimestamp(t0.Add(-time.Second), t0))
	assert.Equal(t, t0.Add(time.Second), ClampTimestamp(t0.Add(time.Second), t0))
}

func TestAccountFullName(t *testing.T) {
	assert.Equal(t, "Rahim Uddin", Account{FirstName: "Rahim", LastName: "Uddin"}.FullName())
	assert.Equal(t, "Rahim", Account{FirstName: "Rahim"}.FullName())
	assert.Equal(t, "Uddin", Account{LastName: "Uddin"}.FullName())
}
