package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSearch(t *testing.T) {
	m := New()

	m.ObserveSearch("global", 2*time.Millisecond, 5, false)
	m.ObserveSearch("cpp", time.Millisecond, 0, false)
	m.ObserveSearch("global", 0, 0, true)

	if got := testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("global")); got != 1 {
		t.Errorf("global queries = %v", got)
	}
	if got := testutil.ToFloat64(m.SearchTooShortTotal); got != 1 {
		t.Errorf("too short = %v", got)
	}
}

func TestObserveIndex(t *testing.T) {
	m := New()
	m.ObserveIndex("snapshot", time.Second, 1200)

	if got := testutil.ToFloat64(m.IndexRecords); got != 1200 {
		t.Errorf("records = %v", got)
	}
	if got := testutil.ToFloat64(m.IndexReady); got != 1 {
		t.Errorf("ready = %v", got)
	}
	if got := testutil.ToFloat64(m.IndexBuildsTotal.WithLabelValues("snapshot")); got != 1 {
		t.Errorf("builds = %v", got)
	}
}

func TestNew_Independent(t *testing.T) {
	a, b := New(), New()
	a.RecordHTTPRequest("/api/search", 200, time.Millisecond)

	if got := testutil.ToFloat64(b.HTTPRequestsTotal.WithLabelValues("/api/search", "200")); got != 0 {
		t.Errorf("metrics leaked across instances: %v", got)
	}
	if n, err := testutil.GatherAndCount(a.Registry, "qanun_http_requests_total"); err != nil || n != 1 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}
