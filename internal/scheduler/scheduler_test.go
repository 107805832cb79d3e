package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/jon4hz/leafcheck/internal/store/mock"
	"github.com/jon4hz/leafcheck/internal/uploads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestScheduler_RunJobNow(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	done := make(chan struct{}, 1)
	require.NoError(t, s.AddSingletonJob("job", "Job", "test job", "0 0 1 1 *", func(context.Context) error {
		runs.Add(1)
		done <- struct{}{}
		return nil
	}))
	s.Start()

	require.NoError(t, s.RunJobNow("job"))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}

	assert.Eventually(t, func() bool {
		info, ok := s.GetJob("job")
		return ok && info.Status == JobStatusCompleted && info.RunCount == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_FailedJob(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.AddJob("fail", "Fail", "always fails", "0 0 1 1 *", func(context.Context) error {
		return errors.New("boom")
	}))
	s.Start()

	require.NoError(t, s.RunJobNow("fail"))
	assert.Eventually(t, func() bool {
		info, _ := s.GetJob("fail")
		return info.Status == JobStatusFailed && info.ErrorCount == 1 && info.LastError == "boom"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestScheduler_UnknownJob(t *testing.T) {
	s := newTestScheduler(t)
	require.ErrorIs(t, s.RunJobNow("nope"), ErrJobNotFound)
	require.ErrorIs(t, s.SetEnabled("nope", false), ErrJobNotFound)
	_, ok := s.GetJob("nope")
	assert.False(t, ok)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := newTestScheduler(t)
	err := s.AddJob("bad", "Bad", "", "not a cron", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Empty(t, s.GetJobs())
}

func TestScheduler_GetJobsSorted(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }
	require.NoError(t, s.AddJob("b", "B", "", "0 0 * * *", noop))
	require.NoError(t, s.AddJob("a", "A", "", "0 0 * * *", noop))

	jobs := s.GetJobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "b", jobs[1].ID)

	require.NoError(t, s.SetEnabled("a", false))
	info, _ := s.GetJob("a")
	assert.False(t, info.Enabled)
}

func TestMaintenance_SweepOrphans(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	cfg := &config.UploadsConfig{
		Dir:                 filepath.Join(root, "uploaded_images"),
		ThumbnailDir:        filepath.Join(root, "thumbs"),
		OrphanSweepSchedule: "0 3 * * *",
		OrphanGracePeriod:   time.Hour,
		ThumbnailMaxAge:     time.Hour,
	}
	up, err := uploads.New(cfg)
	require.NoError(t, err)

	kept, err := up.Save("kept.jpg", []byte("x"))
	require.NoError(t, err)
	orphan, err := up.Save("orphan.jpg", []byte("x"))
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(kept, old, old))
	require.NoError(t, os.Chtimes(orphan, old, old))

	st := mock.NewMockStore()
	require.NoError(t, st.AppendSubmission(ctx, &store.Submission{Identifier: "01712345678", ImagePath: kept}))

	m := NewMaintenance(st, up, cfg)
	removed, err := m.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan}, removed)
	assert.FileExists(t, kept)

	require.NoError(t, m.PruneThumbnails(ctx))

	s := newTestScheduler(t)
	require.NoError(t, m.Register(s))
	assert.Len(t, s.GetJobs(), 2)
}

func TestMaintenance_StoreError(t *testing.T) {
	st := mock.NewMockStore()
	st.LoadSubmissionsError = errors.New("corrupt")
	m := NewMaintenance(st, nil, &config.UploadsConfig{})

	_, err := m.SweepOrphans(context.Background())
	require.Error(t, err)
}

func TestReferenced(t *testing.T) {
	refs := Referenced([]store.Submission{
		{ImagePath: "uploaded_images/a.jpg"},
		{ImagePath: "b.png"},
	})
	assert.Contains(t, refs, "a.jpg")
	assert.Contains(t, refs, "b.png")
	assert.Len(t, refs, 2)
}
