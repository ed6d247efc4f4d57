package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequests_Counts(t *testing.T) {
	before := testutil.ToFloat64(Requests.WithLabelValues("valuation", "OK"))
	Requests.WithLabelValues("valuation", "OK").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Requests.WithLabelValues("valuation", "OK")))
}

func TestModelAvailable(t *testing.T) {
	ModelAvailable.Set(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(ModelAvailable))
	ModelAvailable.Set(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(ModelAvailable))
}
