package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveWatermark(t *testing.T) {
	success := testutil.ToFloat64(WatermarksTotal.WithLabelValues("text", "success"))
	failed := testutil.ToFloat64(WatermarksTotal.WithLabelValues("image", "error"))

	ObserveWatermark("text", nil, time.Now())
	ObserveWatermark("image", errors.New("boom"), time.Now())

	assert.Equal(t, success+1, testutil.ToFloat64(WatermarksTotal.WithLabelValues("text", "success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(WatermarksTotal.WithLabelValues("image", "error")))
}

func TestObserveCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("miss"))

	ObserveCacheLookup(true)
	ObserveCacheLookup(false)
	ObserveCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("miss")))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))

	ObserveHTTPRequest("GET", "/health", "200", time.Now())

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}
