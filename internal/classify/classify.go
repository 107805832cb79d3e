// Package classify maps uploaded leaf images to catalogue entries and logs every submission.
package classify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/catalogue"
	"github.com/jon4hz/leafcheck/internal/metrics"
	"github.com/jon4hz/leafcheck/internal/store"
)

// ErrNoImage is returned when a submission carries no image.
var ErrNoImage = errors.New("no image provided")

// Inferrer returns the winning class index for an image.
type Inferrer interface {
	Infer(ctx context.Context, image []byte) (int, error)
}

// Uploads persists uploaded images.
type Uploads interface {
	Save(name string, data []byte) (string, error)
	Remove(path string) error
}

// Classifier turns images into catalogue display records.
type Classifier struct {
	inferrer  Inferrer
	catalogue *catalogue.Catalogue
}

// NewClassifier creates a new classifier.
func NewClassifier(inferrer Inferrer, cat *catalogue.Catalogue) *Classifier {
	return &Classifier{inferrer: inferrer, catalogue: cat}
}

// Catalogue returns the catalogue predictions are resolved against.
func (c *Classifier) Catalogue() *catalogue.Catalogue {
	return c.catalogue
}

// Classify returns the class index and its display record for an image.
func (c *Classifier) Classify(ctx context.Context, image []byte) (int, catalogue.Display, error) {
	if len(image) == 0 {
		return -1, catalogue.Display{}, ErrNoImage
	}

	index, err := c.inferrer.Infer(ctx, image)
	if err != nil {
		return -1, catalogue.Display{}, err
	}

	display, err := c.catalogue.Display(index)
	if err != nil {
		log.Error("model returned an unknown class", "index", index, "error", err)
		return -1, catalogue.Display{}, err
	}
	return index, display, nil
}

// Result is the outcome of a submitted image.
type Result struct {
	Submission store.Submission  `json:"submission"`
	Display    catalogue.Display `json:"display"`
}

// Pipeline stores the upload, classifies it and logs the submission.
type Pipeline struct {
	classifier *Classifier
	uploads    Uploads
	store      store.Store
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewPipeline creates a new classification pipeline. m may be nil.
func NewPipeline(classifier *Classifier, uploads Uploads, s store.Store, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		uploads:    uploads,
		store:      s,
		metrics:    m,
		now:        time.Now,
	}
}

// Classifier returns the classifier used by the pipeline.
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// Submit runs the whole pipeline for one upload on behalf of actor.
// A submission that can't be logged fails as a whole.
func (p *Pipeline) Submit(ctx context.Context, actor, filename string, image []byte) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrNoImage
	}

	path, err := p.uploads.Save(filename, image)
	if err != nil {
		log.Error("failed to save upload", "actor", actor, "error", err)
		return nil, err
	}

	index, display, err := p.classifier.Classify(ctx, image)
	if err != nil {
		if rmErr := p.uploads.Remove(path); rmErr != nil {
			log.Warn("failed to remove upload after failed classification", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	submission := &store.Submission{
		Identifier: actor,
		ImagePath:  path,
		LabelIndex: index,
		Prediction: display.Name,
		Timestamp:  p.now(),
	}
	if err := p.store.AppendSubmission(ctx, submission); err != nil {
		log.Error("failed to log submission", "actor", actor, "path", path, "error", err)
		return nil, fmt.Errorf("failed to log submission: %w", err)
	}

	p.metrics.ObservePrediction(display.Name)
	log.Info("Classified upload", "actor", actor, "path", path, "index", index, "prediction", display.Name)

	return &Result{Submission: *submission, Display: display}, nil
}
