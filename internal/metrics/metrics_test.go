package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecording(t *testing.T) {
	m := New()

	m.LedgerMutation("add_member", nil)
	m.LedgerMutation("add_member", errors.New("member already exists"))
	m.LedgerMutation("add_member", nil)
	m.SyncFlush(errors.New("disk full"))
	m.SetWorkspaces(3)
	m.ObserveRPC("/khaja.v1.LunchService/AddMember", "ok", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_member", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_member", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncFlushes.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.workspaces))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/khaja.v1.LunchService/AddMember", "ok")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LedgerMutation("clear_all", nil)
		m.SyncFlush(nil)
		m.SetWorkspaces(1)
		m.ObserveRPC("p", "ok", time.Second)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.SyncFlush(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `khaja_sync_flushes_total{result="ok"} 1`))
}
