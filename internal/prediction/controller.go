// Package prediction runs forecast requests against a backend and keeps the
// single active result.
package prediction

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/pu9052473/shoreline-project/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Backend produces raw forecast replies. Non-OK responses and network
// failures are returned as errors, preferably *domain.TransportError.
type Backend interface {
	Predict(ctx context.Context, model domain.ModelDescriptor, req domain.PredictionRequest) (domain.BackendReply, error)
	CheckReadiness(ctx context.Context) error
}

// ResultStore keeps recent results addressable by id.
type ResultStore interface {
	Put(result domain.PredictionResult)
	Get(id string) (domain.PredictionResult, bool)
}

// ResultSink receives every result that becomes active.
type ResultSink interface {
	Publish(ctx context.Context, result domain.PredictionResult) error
}

// State is a snapshot of the loading flags.
type State struct {
	ShortTermLoading bool   `json:"short_term_loading"`
	LongTermLoading  bool   `json:"long_term_loading"`
	AnyBusy          bool   `json:"any_busy"`
	ActiveResultID   string `json:"active_result_id,omitempty"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithResultSink publishes each new active result to sink.
func WithResultSink(sink ResultSink) Option {
	return func(c *Controller) { c.sink = sink }
}

// WithStateListener calls fn after every loading flag change.
func WithStateListener(fn func(State)) Option {
	return func(c *Controller) { c.listener = fn }
}

// Controller issues one prediction at a time and holds the active result.
type Controller struct {
	backend  Backend
	store    ResultStore
	sink     ResultSink
	listener func(State)
	logger   *slog.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer

	mu               sync.Mutex
	shortTermLoading bool
	longTermLoading  bool
	active           *domain.PredictionResult
}

// New creates a Controller around a backend strategy.
func New(backend Backend, store ResultStore, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		store:   store,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/pu9052473/shoreline-project/internal/prediction"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunPrediction requests a forecast for modelID and makes the outcome the
// active result. Backend failures never surface as errors: they produce a
// degraded result built from mock data. The only errors are an unknown
// model and a prediction already in flight, neither of which changes state.
func (c *Controller) RunPrediction(ctx context.Context, modelID string) (domain.PredictionResult, error) {
	model, err := domain.LookupModel(modelID)
	if err != nil {
		c.metrics.PredictionRejected.WithLabelValues("unknown", "unknown_model").Inc()
		return domain.PredictionResult{}, err
	}
	if err := c.begin(model.ID); err != nil {
		c.metrics.PredictionRejected.WithLabelValues(model.ID, "busy").Inc()
		return domain.PredictionResult{}, err
	}
	defer c.finish(model.ID)

	ctx, span := c.tracer.Start(ctx, "prediction.run", trace.WithAttributes(
		attribute.String("model.id", model.ID),
	))
	defer span.End()

	result := c.fetch(ctx, model)
	span.SetAttributes(attribute.Bool("prediction.degraded", result.Degraded))
	if result.Degraded {
		span.SetStatus(codes.Error, result.StatusMessage)
	}

	c.activate(result)
	c.store.Put(result)
	c.publish(ctx, result)

	outcome := "ok"
	if result.Degraded {
		outcome = "degraded"
	}
	c.metrics.PredictionsTotal.WithLabelValues(model.ID, outcome).Inc()
	c.logger.Info("prediction completed",
		"model_id", model.ID,
		"result_id", result.ID,
		"payload", result.Payload.Kind,
		"degraded", result.Degraded,
	)
	return result, nil
}

// fetch performs the single backend call and resolves it into a result.
func (c *Controller) fetch(ctx context.Context, model domain.ModelDescriptor) domain.PredictionResult {
	result := domain.PredictionResult{
		ID:           uuid.NewString(),
		ModelID:      model.ID,
		ModelTitle:   model.Title,
		HorizonLabel: model.Horizon,
		GeneratedAt:  domain.Now(),
	}

	start := time.Now()
	reply, err := c.backend.Predict(ctx, model, domain.NewPredictionRequest())
	c.metrics.BackendDuration.WithLabelValues(model.ID).Observe(time.Since(start).Seconds())
	if err != nil {
		return c.fallback(result, "transport", transportMessage(err), err)
	}

	env, err := domain.DecodeEnvelope(reply.Body)
	if err != nil {
		return c.fallback(result, "transport", domain.MsgConnectionFailed, &domain.TransportError{Err: err})
	}
	if !env.Success {
		shapeErr := &domain.ShapeMismatchError{Message: env.Message}
		return c.fallback(result, "shape", shapeErr.StatusMessage(), shapeErr)
	}
	payload, err := domain.Normalize(model.ID, env)
	if err != nil {
		shapeErr := &domain.ShapeMismatchError{Message: env.Message, Err: err}
		return c.fallback(result, "shape", shapeErr.StatusMessage(), shapeErr)
	}

	result.Payload = payload
	result.ModelInfo = env.ModelInfo
	if reply.Synthetic {
		c.metrics.FallbacksTotal.WithLabelValues(model.ID, "mock_mode").Inc()
		result.Degraded = true
		result.StatusMessage = domain.MsgMockMode
	}
	return result
}

func (c *Controller) fallback(result domain.PredictionResult, reason, message string, err error) domain.PredictionResult {
	if message == "" {
		message = domain.MsgUnexpectedResponse
	}
	c.logger.Warn("prediction degraded, serving mock data",
		"model_id", result.ModelID,
		"reason", reason,
		"error", err,
	)
	c.metrics.FallbacksTotal.WithLabelValues(result.ModelID, reason).Inc()

	result.Payload = domain.PeriodPayload(domain.GenerateMock(result.ModelID))
	result.Degraded = true
	result.StatusMessage = message
	return result
}

func transportMessage(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te.StatusMessage()
	}
	return domain.MsgConnectionFailed
}

func (c *Controller) publish(ctx context.Context, result domain.PredictionResult) {
	if c.sink == nil {
		return
	}
	if err := c.sink.Publish(ctx, result); err != nil {
		c.metrics.PublishErrors.Inc()
		c.logger.Error("publish result failed", "result_id", result.ID, "error", err)
		return
	}
	c.metrics.ResultsPublished.Inc()
}

// begin atomically checks that nothing is loading and raises the model's flag.
func (c *Controller) begin(modelID string) error {
	c.mu.Lock()
	if c.shortTermLoading || c.longTermLoading {
		c.mu.Unlock()
		return domain.ErrPredictionInFlight
	}
	c.setLoadingLocked(modelID, true)
	st := c.stateLocked()
	c.mu.Unlock()

	c.metrics.PredictionInFlight.WithLabelValues(modelID).Set(1)
	c.notify(st)
	return nil
}

func (c *Controller) finish(modelID string) {
	c.mu.Lock()
	c.setLoadingLocked(modelID, false)
	st := c.stateLocked()
	c.mu.Unlock()

	c.metrics.PredictionInFlight.WithLabelValues(modelID).Set(0)
	c.notify(st)
}

func (c *Controller) setLoadingLocked(modelID string, v bool) {
	switch modelID {
	case domain.ShortTerm:
		c.shortTermLoading = v
	case domain.LongTerm:
		c.longTermLoading = v
	}
}

// activate replaces the active result unconditionally.
func (c *Controller) activate(result domain.PredictionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = &result
}

func (c *Controller) notify(st State) {
	if c.listener != nil {
		c.listener(st)
	}
}

func (c *Controller) stateLocked() State {
	st := State{
		ShortTermLoading: c.shortTermLoading,
		LongTermLoading:  c.longTermLoading,
		AnyBusy:          c.shortTermLoading || c.longTermLoading,
	}
	if c.active != nil {
		st.ActiveResultID = c.active.ID
	}
	return st
}

// State returns the current loading flags.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// AnyBusy reports whether a prediction for either model is loading.
func (c *Controller) AnyBusy() bool {
	return c.State().AnyBusy
}

// Loading reports whether a prediction for modelID is loading.
func (c *Controller) Loading(modelID string) bool {
	st := c.State()
	switch modelID {
	case domain.ShortTerm:
		return st.ShortTermLoading
	case domain.LongTerm:
		return st.LongTermLoading
	}
	return false
}

// Active returns the displayed result, if any.
func (c *Controller) Active() (domain.PredictionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return domain.PredictionResult{}, false
	}
	return *c.active, true
}

// Result looks up a recent result by id.
func (c *Controller) Result(id string) (domain.PredictionResult, bool) {
	return c.store.Get(id)
}

// CheckReadiness reports whether the backend can take predictions.
func (c *Controller) CheckReadiness(ctx context.Context) error {
	return c.backend.CheckReadiness(ctx)
}
