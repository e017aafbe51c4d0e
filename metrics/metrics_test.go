package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistration(t *testing.T) {
	// Metrics register globally via promauto; the test asserts the package
	// initializes without panicking.
	assert.NotNil(t, EventsIngested)
	assert.NotNil(t, EventsQuarantined)
	assert.NotNil(t, EventsScored)
	assert.NotNil(t, DetectorHits)
	assert.NotNil(t, CorrelationMatches)
	assert.NotNil(t, CorrelationResidue)
	assert.NotNil(t, SessionsFormed)
	assert.NotNil(t, AnalysisDuration)
}
