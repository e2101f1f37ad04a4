package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-lab/internal/features"
)

func TestMetrics_RecordDropsAndRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "")

	m.InputRows.Add(10)
	m.RecordDrops(features.DropCounts{features.DropIncompleteHistory: 2, features.DropMissingOpponent: 1})
	m.RecordDrops(features.DropCounts{features.DropIncompleteHistory: 1})
	m.RecordRun(time.Second, nil)
	m.RecordRun(2*time.Second, errors.New("boom"))

	assert.Equal(t, 10.0, testutil.ToFloat64(m.InputRows))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DroppedRows.WithLabelValues("incomplete_history")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedRows.WithLabelValues("missing_opponent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusFailure)))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessTS), 0.0)

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP featurelab_loader_input_rows_total Total number of raw game log rows read
# TYPE featurelab_loader_input_rows_total counter
featurelab_loader_input_rows_total 10
`), "featurelab_loader_input_rows_total")
	assert.NoError(t, err)
}

func TestMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg, "x")
	assert.Panics(t, func() { NewMetrics(reg, "x") })
}

func TestNewMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "")
	m.OutputRows.Add(4)

	srv := httptest.NewServer(NewMux(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body := new(strings.Builder)
	_, err = io.Copy(body, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "featurelab_pipeline_output_rows_total 4")
}
