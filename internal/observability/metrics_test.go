package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(computations.WithLabelValues(ViewStats))
	RecordComputation(ViewStats)
	assert.Equal(t, before+1, testutil.ToFloat64(computations.WithLabelValues(ViewStats)))

	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))
	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))

	dropped := testutil.ToFloat64(workerJobs.WithLabelValues(JobDropped))
	RecordWorkerJob(JobDropped)
	assert.Equal(t, dropped+1, testutil.ToFloat64(workerJobs.WithLabelValues(JobDropped)))
}

func TestRecordLedgerWrite(t *testing.T) {
	ts := time.Unix(1_700_000_000, 0)
	RecordLedgerWrite(ts)
	assert.Equal(t, float64(ts.Unix()), testutil.ToFloat64(ledgerWriteGauge))

	RecordLedgerWrite(time.Time{})
	assert.Equal(t, float64(ts.Unix()), testutil.ToFloat64(ledgerWriteGauge), "Zero time must not reset the watermark")
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	ObserveHTTP("GET", "", 404, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}
