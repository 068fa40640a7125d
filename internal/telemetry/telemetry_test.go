package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTracerStartsSpans(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "probe")
	defer span.End()
	assert.NotNil(t, span)
}
