// Package inference turns image bytes into a class index using an external model server.
package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/cache"
	"github.com/jon4hz/leafcheck/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// ErrUnexpectedOutput is returned when the model output doesn't match the catalogue.
var ErrUnexpectedOutput = errors.New("unexpected model output")

// Predictor returns the class scores for one preprocessed image.
type Predictor interface {
	Predict(ctx context.Context, t Tensor) ([]float32, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, t Tensor) ([]float32, error)

func (f PredictorFunc) Predict(ctx context.Context, t Tensor) ([]float32, error) {
	return f(ctx, t)
}

// Service preprocesses images, calls the predictor and picks the winning class.
type Service struct {
	predictor Predictor
	inputSize int
	classes   int
	cache     *cache.PredictionCache
	metrics   *metrics.Metrics
	group     singleflight.Group
}

// NewService creates an inference service. predCache and m may be nil.
func NewService(predictor Predictor, inputSize, classes int, predCache *cache.PredictionCache, m *metrics.Metrics) *Service {
	return &Service{
		predictor: predictor,
		inputSize: inputSize,
		classes:   classes,
		cache:     predCache,
		metrics:   m,
	}
}

// Infer returns the class index for the image. Identical images are only sent to the
// model once, both across time (cache) and across concurrent requests.
func (s *Service) Infer(ctx context.Context, image []byte) (int, error) {
	key := cache.Key(image)

	if s.cache != nil {
		if pred, ok := s.cache.Get(ctx, key); ok {
			log.Debug("Prediction served from cache", "key", key[:12], "index", pred.Index)
			s.metrics.ObserveCacheHit()
			return pred.Index, nil
		}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.infer(ctx, image)
	})
	if err != nil {
		return -1, err
	}
	if shared {
		log.Debug("Prediction shared with a concurrent request", "key", key[:12])
	}

	index := v.(int)
	if s.cache != nil {
		s.cache.Set(ctx, key, cache.Prediction{Index: index})
	}
	return index, nil
}

func (s *Service) infer(ctx context.Context, image []byte) (int, error) {
	tensor, err := Preprocess(image, s.inputSize)
	if err != nil {
		return -1, err
	}

	start := time.Now()
	scores, err := s.predictor.Predict(ctx, tensor)
	s.metrics.ObserveInference(time.Since(start), err)
	if err != nil {
		return -1, fmt.Errorf("prediction failed: %w", err)
	}

	if len(scores) != s.classes {
		return -1, fmt.Errorf("%w: got %d scores for %d classes", ErrUnexpectedOutput, len(scores), s.classes)
	}
	return ArgMax(scores), nil
}
