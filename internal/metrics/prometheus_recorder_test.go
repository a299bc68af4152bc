package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration(StageParse, 150*time.Microsecond)
	pr.IncStageResult(StageParse, ResultSuccess)
	pr.ObserveCompile("html", 2*time.Millisecond, ResultSuccess)
	pr.ObserveCompile("jsx", time.Millisecond, ResultFailed)
	pr.ObserveOutputBytes("html", 1024)
	pr.IncCacheLookup(true)
	pr.IncCacheLookup(false)
	pr.IncCacheLookup(false)
	pr.IncWatchRebuild(Result(errors.New("x")))

	assert.InDelta(t, 1, testutil.ToFloat64(pr.compiles.WithLabelValues("html", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.compiles.WithLabelValues("jsx", "failed")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.cacheLookups.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.watchRebuilds.WithLabelValues("failed")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(pr.stageDuration))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveCompile("html", time.Millisecond, ResultSuccess)
	pr.IncCacheLookup(true)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).ObserveCompile("vue", time.Millisecond, ResultSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `scc_compiles_total{result="success",target="vue"} 1`))
}
