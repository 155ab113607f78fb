package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersRecord(t *testing.T) {
	m := New()

	m.VoucherIssued("agent", 3)
	m.VoucherFailed("purchase", "insufficient_allowance")
	m.Classified("pricing")
	m.Classified("pricing")
	m.RiskAssessed("LOW_RISK")
	m.ChatReplied("agent")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.vouchersIssued.WithLabelValues("agent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.vouchersFailed.WithLabelValues("purchase", "insufficient_allowance")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.classifications.WithLabelValues("pricing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.riskActions.WithLabelValues("LOW_RISK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatReplies.WithLabelValues("agent")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.VoucherIssued("agent", 1)
	m.VoucherFailed("agent", "x")
	m.Classified("x")
	m.RiskAssessed("x")
	m.ChatReplied("x")
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/api/license/authorize", 200, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "brolli_http_request_duration_seconds"), "missing histogram")
	assert.True(t, strings.Contains(body, `route="/api/license/authorize"`), "missing route label")
}
