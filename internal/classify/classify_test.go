package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/jon4hz/leafcheck/internal/catalogue"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/inference"
	"github.com/jon4hz/leafcheck/internal/store/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fixedInferrer struct {
	index int
	err   error
	calls int
}

func (f *fixedInferrer) Infer(context.Context, []byte) (int, error) {
	f.calls++
	return f.index, f.err
}

type fakeUploads struct {
	saved   []string
	removed []string
	err     error
}

func (f *fakeUploads) Save(name string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := "uploaded_images/" + name
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeUploads) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func TestClassifier_English(t *testing.T) {
	c := NewClassifier(&fixedInferrer{index: 3}, catalogue.MustNew(config.LanguageEnglish))

	index, display, err := c.Classify(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, 3, index)
	assert.Equal(t, "Apple healthy", display.Name)
	assert.Equal(t, "Model is Predicting it's a Apple healthy", display.Text)
	assert.False(t, display.HasDetails())
}

func TestClassifier_Bengali(t *testing.T) {
	cat := catalogue.MustNew(config.LanguageBengali)
	c := NewClassifier(&fixedInferrer{index: 0}, cat)

	_, display, err := c.Classify(context.Background(), []byte("img"))
	require.NoError(t, err)
	entry, err := cat.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, entry.Name, display.Name)
	assert.Contains(t, display.Text, entry.Name)
}

func TestClassifier_IndexOutOfRange(t *testing.T) {
	c := NewClassifier(&fixedInferrer{index: 38}, catalogue.MustNew(config.LanguageEnglish))

	_, _, err := c.Classify(context.Background(), []byte("img"))
	require.ErrorIs(t, err, catalogue.ErrIndexOutOfRange)
}

func TestClassifier_NoImage(t *testing.T) {
	inf := &fixedInferrer{}
	c := NewClassifier(inf, catalogue.MustNew(config.LanguageEnglish))

	_, _, err := c.Classify(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoImage)
	assert.Zero(t, inf.calls)
}

type PipelineTestSuite struct {
	suite.Suite
	store    *mock.MockStore
	uploads  *fakeUploads
	inferrer *fixedInferrer
	pipeline *Pipeline
	ctx      context.Context
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = mock.NewMockStore()
	s.uploads = &fakeUploads{}
	s.inferrer = &fixedInferrer{index: 28}
	classifier := NewClassifier(s.inferrer, catalogue.MustNew(config.LanguageEnglish))
	s.pipeline = NewPipeline(classifier, s.uploads, s.store, nil)
}

func (s *PipelineTestSuite) TestSubmit() {
	res, err := s.pipeline.Submit(s.ctx, "01712345678", "tomato.jpg", []byte("img"))
	s.Require().NoError(err)

	s.Equal(28, res.Display.Index)
	s.Equal("Tomato Bacterial spot", res.Display.Name)
	s.Equal("01712345678", res.Submission.Identifier)
	s.Equal("uploaded_images/tomato.jpg", res.Submission.ImagePath)
	s.NotEmpty(res.Submission.ID)

	subs, err := s.store.LoadSubmissions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Equal("Tomato Bacterial spot", subs[0].Prediction)
	s.Equal(28, subs[0].LabelIndex)
}

func (s *PipelineTestSuite) TestSubmitNoImage() {
	_, err := s.pipeline.Submit(s.ctx, "01712345678", "x.jpg", nil)
	s.Require().ErrorIs(err, ErrNoImage)
	s.Empty(s.uploads.saved)
	s.Zero(s.inferrer.calls)
}

func (s *PipelineTestSuite) TestSubmitInferenceFailureRemovesUpload() {
	s.inferrer.err = inference.ErrModelUnavailable

	_, err := s.pipeline.Submit(s.ctx, "01712345678", "x.jpg", []byte("img"))
	s.Require().ErrorIs(err, inference.ErrModelUnavailable)
	s.Equal([]string{"uploaded_images/x.jpg"}, s.uploads.removed)

	subs, err := s.store.LoadSubmissions(s.ctx)
	s.Require().NoError(err)
	s.Empty(subs)
}

func (s *PipelineTestSuite) TestSubmitStoreFailureFailsRequest() {
	s.store.AppendSubmissionError = errors.New("disk full")

	_, err := s.pipeline.Submit(s.ctx, "01712345678", "x.jpg", []byte("img"))
	s.Require().Error(err)
	s.Contains(err.Error(), "disk full")
}

func (s *PipelineTestSuite) TestSubmitUploadFailure() {
	s.uploads.err = errors.New("read-only file system")

	_, err := s.pipeline.Submit(s.ctx, "01712345678", "x.jpg", []byte("img"))
	s.Require().Error(err)
	s.Zero(s.inferrer.calls)
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
