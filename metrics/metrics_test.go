package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveRequest(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveRequest("POST", "query/get?pageNo=1&pageSize=10", 200, 20*time.Millisecond)
	c.ObserveRequest("POST", "query/get?pageNo=2&pageSize=10", 200, 30*time.Millisecond)
	c.ObserveRequest("GET", "schemas/envelopeTypes/50/details", 401, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.requests.WithLabelValues("POST", "query/get", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requests.WithLabelValues("GET", "schemas/envelopeTypes/:id/details", "401")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestCollector_ObserveAuth(t *testing.T) {
	t.Parallel()

	c, err := NewCollector(nil)
	require.NoError(t, err)

	c.ObserveAuth(true)
	c.ObserveAuth(false)
	c.ObserveAuth(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.logins.WithLabelValues("true")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.logins.WithLabelValues("false")))
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)
	_, err = NewCollector(reg)
	require.Error(t, err)
}

func TestNormalizePath_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "auth/login", want: "auth/login"},
		{in: "schemas/", want: "schemas"},
		{in: "schemas/envelopeTypes/15/indexesByTableName?tableName=x", want: "schemas/envelopeTypes/:id/indexesByTableName"},
		{in: "schemas/618b2c0f9a", want: "schemas/:id"},
		{in: "schemas/another-doc-id", want: "schemas/:id"},
		{in: "schemas/versions/latest", want: "schemas/versions/latest"},
		{in: "schemas/schemaList?page=1", want: "schemas/schemaList"},
		{in: "/schemas/dataTypes", want: "schemas/dataTypes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizePath(tt.in))
		})
	}
}
