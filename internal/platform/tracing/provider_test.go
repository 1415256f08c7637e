package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("empty endpoint is a no-op", func(t *testing.T) {
		shutdown, err := Setup(context.Background(), "", "ddinvest-bff")
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
	})

	t.Run("provider flushes against an unreachable collector", func(t *testing.T) {
		// 192.0.2.0/24 is reserved for documentation and never routes.
		shutdown, err := Setup(context.Background(), "http://192.0.2.1:4318", "ddinvest-bff")
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
	})
}
