package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "test", Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	span.SetError(errors.New("ignored by noop tracer"))
	span.End()
}

func TestTrackGateway_CountsOutcome(t *testing.T) {
	before := testutil.ToFloat64(GatewayRequests.WithLabelValues("unit", "error"))

	done := TrackGateway("unit")
	done(errors.New("boom"))

	after := testutil.ToFloat64(GatewayRequests.WithLabelValues("unit", "error"))
	assert.InDelta(t, before+1, after, 0.0001)
}
