package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestWithTracingAddsSpanIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(&buf, logrus.InfoLevel)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoWithTracing(ctx, "lead relayed", logrus.Fields{"submission_id": "abc"})

	line := decodeLine(t, &buf)
	assert.Equal(t, "lead relayed", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "abc", line["submission_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["span_id"])
	assert.Contains(t, line, "timestamp")
}

func TestErrorWithTracingWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(&buf, logrus.InfoLevel)

	logger.ErrorWithTracing(context.Background(), "relay failed", errors.New("dial tcp: refused"), nil)

	line := decodeLine(t, &buf)
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "dial tcp: refused", line["error"])
	assert.NotContains(t, line, "trace_id")
}

func TestSetLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(&buf, logrus.InfoLevel)

	logger.DebugWithTracing(context.Background(), "hidden", nil)
	assert.Zero(t, buf.Len())

	require.NoError(t, logger.SetLevelName("debug"))
	logger.DebugWithTracing(context.Background(), "visible", nil)
	assert.Contains(t, buf.String(), "visible")

	assert.Error(t, logger.SetLevelName("loud"))
}
