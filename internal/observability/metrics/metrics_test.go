package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsUnknownLabels(t *testing.T) {
	filtered := FilterAttributes(
		attribute.String("outcome", "allow"),
		attribute.String("actor_key", "u-1"),
		attribute.String("reason", "mode_not_selected"),
		attribute.String("email", "a@b.co"),
	)

	keys := make([]string, 0, len(filtered))
	for _, attr := range filtered {
		keys = append(keys, string(attr.Key))
	}
	assert.ElementsMatch(t, []string{"outcome", "reason"}, keys)
}

func TestRecordersTolerateNilMetrics(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	m.RecordGateDecision(ctx, "allow", "")
	m.RecordModeTransition(ctx, "retail")
	m.RecordAdvisorRequest(ctx, "remote")
	m.RecordAdvisorFallback(ctx, "orchestrator_unreachable")
	m.RecordRateLimitAllowed(ctx, "/api/advisor/intent")
	m.RecordRateLimitDenied(ctx, "/api/advisor/intent", "bucket_empty")
}

func TestNewBuildsAllInstruments(t *testing.T) {
	m, err := New(Config{ServiceName: "storefront-test"}, noop.NewMeterProvider())
	require.NoError(t, err)
	require.NotNil(t, m)

	m.RecordGateDecision(context.Background(), "redirect", "unauthenticated")
	m.RecordModeTransition(context.Background(), "subscription")
}
