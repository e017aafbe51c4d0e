package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelOrdering(t *testing.T) {
	assert.True(t, RiskLow < RiskMedium)
	assert.True(t, RiskMedium < RiskHigh)
	assert.True(t, RiskHigh < RiskCritical)
}

func TestMaxRiskLevel(t *testing.T) {
	assert.Equal(t, RiskHigh, MaxRiskLevel(RiskHigh, RiskMedium))
	assert.Equal(t, RiskHigh, MaxRiskLevel(RiskMedium, RiskHigh))
	assert.Equal(t, RiskLow, MaxRiskLevel(RiskLow, RiskLow))
}

func TestParseRiskLevel(t *testing.T) {
	assert.Equal(t, RiskCritical, ParseRiskLevel("Critical"))
	assert.Equal(t, RiskHigh, ParseRiskLevel("High"))
	assert.Equal(t, RiskMedium, ParseRiskLevel("Medium"))
	assert.Equal(t, RiskLow, ParseRiskLevel("Low"))
	// Unknown values degrade to Low instead of failing.
	assert.Equal(t, RiskLow, ParseRiskLevel("bogus"))
}

func TestRiskLevelJSON(t *testing.T) {
	data, err := json.Marshal(RiskHigh)
	require.NoError(t, err)
	assert.Equal(t, `"High"`, string(data))

	var level RiskLevel
	require.NoError(t, json.Unmarshal([]byte(`"Critical"`), &level))
	assert.Equal(t, RiskCritical, level)
}
