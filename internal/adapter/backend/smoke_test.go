//go:build backend

package backend

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit a running prediction backend at SHORELINE_SMOKE_URL.
// Run with: go test -tags=backend ./internal/adapter/backend/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	base := os.Getenv("SHORELINE_SMOKE_URL")
	if base == "" {
		t.Fatal("SHORELINE_SMOKE_URL must be set to run smoke tests")
	}
	return NewClient(base, 60*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Health(t *testing.T) {
	require.NoError(t, smokeClient(t).CheckReadiness(context.Background()))
}

func TestSmoke_EveryModelNormalizes(t *testing.T) {
	c := smokeClient(t)
	for _, m := range domain.Models() {
		t.Run(m.ID, func(t *testing.T) {
			reply, err := c.Predict(context.Background(), m, domain.NewPredictionRequest())
			require.NoError(t, err)

			env, err := domain.DecodeEnvelope(reply.Body)
			require.NoError(t, err)
			require.True(t, env.Success, "backend message: %s", env.Message)

			payload, err := domain.Normalize(m.ID, env)
			require.NoError(t, err)
			assert.NotEmpty(t, payload.Kind)
		})
	}
}
