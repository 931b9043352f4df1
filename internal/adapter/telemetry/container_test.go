package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainerWithoutExporter(t *testing.T) {
	c, err := NewContainer(context.Background(), Config{ServiceName: "pricelist", ServiceVersion: "test", Environment: "test"})
	require.NoError(t, err)

	families, err := c.PrometheusRegistry.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.NoError(t, c.Shutdown(context.Background()))
}
