package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadhub/squadgraph/internal/diagram"
)

func TestObserveCompile(t *testing.T) {
	m := New(nil)

	m.ObserveCompile("phases", "ok", 2*time.Millisecond, 4)
	m.ObserveCompile("phases", "ok", time.Millisecond, 2)
	m.ObserveCompile("", "EMPTY_INPUT", time.Microsecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.compilations.WithLabelValues("phases", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilations.WithLabelValues("none", "EMPTY_INPUT")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.compilations))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveCompile("steps", "ok", time.Second, 1) })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompilerReportsToMetrics(t *testing.T) {
	m := New(nil)
	c := diagram.NewCompiler(diagram.WithMetrics(m))

	_, err := c.Compile("steps:\n  - id: a\n  - id: b\n")
	require.NoError(t, err)
	_, err = c.Compile("name: nothing\n")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilations.WithLabelValues("steps", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilations.WithLabelValues("none", "NO_WORKFLOW_NODES")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(nil)
	m.ObserveCompile("workflow.steps", "ok", time.Millisecond, 3)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `squadgraph_compilations_total{dialect="workflow.steps",outcome="ok"} 1`)
	assert.Contains(t, string(body), "squadgraph_diagram_nodes_bucket")
}
