package metrics

import (
	"testing"

	"github.com/raywall/local-gateway/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopProvider(t *testing.T) {
	provider := &NoopProvider{}
	assert.NoError(t, provider.Count("gateway.request", 1, nil))
	assert.NoError(t, provider.Histogram("gateway.latency_ms", 12.5, []string{"status:200"}))
}

func TestSetup_DisabledReturnsNoop(t *testing.T) {
	provider, err := Setup(config.MetricsConf{})
	require.NoError(t, err)
	assert.IsType(t, &NoopProvider{}, provider)
}

func TestSetup_EnabledReturnsDatadog(t *testing.T) {
	// O client statsd é UDP: a criação não exige agente ouvindo
	provider, err := Setup(config.MetricsConf{
		Datadog: config.DatadogConf{Enabled: true, Addr: "127.0.0.1:8125", Namespace: "gateway."},
	})
	require.NoError(t, err)
	assert.IsType(t, &DatadogProvider{}, provider)
}
