package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("arbiter", "test", exporter))

	ctx, parent := StartSpan(context.Background(), "allocate")
	parent.WithFields(map[string]interface{}{"owner": "build-1", "resources": []string{"rig-1", "rig-2"}, "count": 2})
	_, child := StartSpan(ctx, "lock")
	EndSpan(child, errors.New("held"))
	EndSpan(parent, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "lock", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, "allocate", spans[1].Name)
	assert.Contains(t, spans[1].Attributes, attribute.String("arbiter.owner", "build-1"))
	assert.Contains(t, spans[1].Attributes, attribute.StringSlice("arbiter.resources", []string{"rig-1", "rig-2"}))
	assert.Contains(t, spans[1].Attributes, attribute.Int("arbiter.count", 2))

	var nilSpan *Span
	assert.Nil(t, nilSpan.WithFields(map[string]interface{}{"a": "b"}))
	EndSpan(nil, nil)
}
