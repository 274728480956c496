package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pu9052473/shoreline-project/internal/domain"
)

// Mock answers every prediction with the fixed demo series. Replies are
// marked synthetic so results built from them are flagged as degraded.
type Mock struct{}

// NewMock creates the demo-data backend.
func NewMock() *Mock { return &Mock{} }

type mockEnvelope struct {
	Success     bool              `json:"success"`
	Predictions domain.PeriodList `json:"predictions"`
}

// Predict returns a success envelope carrying the demo periods for model.
func (m *Mock) Predict(_ context.Context, model domain.ModelDescriptor, _ domain.PredictionRequest) (domain.BackendReply, error) {
	body, err := json.Marshal(mockEnvelope{
		Success:     true,
		Predictions: domain.GenerateMock(model.ID),
	})
	if err != nil {
		return domain.BackendReply{}, fmt.Errorf("encode mock reply: %w", err)
	}
	return domain.BackendReply{Body: body, Synthetic: true}, nil
}

// CheckReadiness always succeeds.
func (m *Mock) CheckReadiness(context.Context) error { return nil }
