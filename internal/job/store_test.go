// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZSC714725/framegrab/internal/ffmpeg"
	"github.com/ZSC714725/framegrab/internal/ffmpeg/ffmpegtest"
	"github.com/ZSC714725/framegrab/internal/media"
	"github.com/ZSC714725/framegrab/internal/timepoint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, script string) (Store, *ffmpegtest.Fake, *media.Media) {
	t.Helper()
	ff := ffmpegtest.New(map[string]ffmpeg.MediaInfo{"/videos/a.mp4": {Duration: 60}})
	if script != "" {
		ff.Script = script
	}
	lib := media.NewLibrary(media.Config{FFmpeg: ff})
	m, err := lib.Register(context.Background(), "a", "/videos/a.mp4")
	require.NoError(t, err)

	s := NewStore(StoreConfig{FFmpeg: ff, Library: lib, OutputDir: t.TempDir()})
	return s, ff, m
}

func wait(t *testing.T, j *Job) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, j.proc.Wait(ctx))
}

func TestAddAndRun(t *testing.T) {
	s, ff, m := newStore(t, `printf 'Output #0, image2\nframe=    2 fps=0.0 q=2.0 size=N/A time=00:00:00.04 speed=1.0x\n' >&2`)

	j, err := s.Add(&Config{MediaID: m.ID, Points: []float64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "jpg", j.Config.Format)
	assert.DirExists(t, j.Dir)
	assert.Len(t, j.Outputs(), 2)
	assert.Equal(t, "finished", j.Status().State)

	cmds := ff.Commands()
	require.Len(t, cmds, 1)
	assert.Contains(t, cmds[0], "/videos/a.mp4")

	require.NoError(t, s.Start(j.ID))
	wait(t, j)

	assert.Equal(t, "finished", j.Status().State)
	assert.Equal(t, uint64(1), j.Status().States.Finished)
	assert.Equal(t, uint64(2), j.Progress().Frame)
	assert.Equal(t, 1, j.Progress().Outputs)
	assert.NotEmpty(t, j.Log())
}

func TestAddAutostart(t *testing.T) {
	s, _, m := newStore(t, "exit 1")

	j, err := s.Add(&Config{MediaID: m.ID, Points: []float64{5}, Autostart: true})
	require.NoError(t, err)
	wait(t, j)
	assert.Equal(t, "failed", j.Status().State)
	assert.Equal(t, 1, j.Status().ExitCode)
}

func TestAddValidation(t *testing.T) {
	s, _, m := newStore(t, "")

	_, err := s.Add(&Config{MediaID: m.ID})
	assert.ErrorIs(t, err, ErrNoPoints)

	_, err = s.Add(&Config{MediaID: "nope", Points: []float64{1}})
	assert.ErrorIs(t, err, ErrUnknownMedia)

	_, err = s.Add(&Config{MediaID: m.ID, Points: []float64{1}, Format: "gif"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = s.Add(&Config{MediaID: m.ID, Points: []float64{1, 61, -2}})
	var rerr *timepoint.RangeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, []float64{61, -2}, rerr.Values)

	points := make([]float64, DefaultMaxPoints+1)
	_, err = s.Add(&Config{MediaID: m.ID, Points: points})
	assert.ErrorIs(t, err, ErrTooManyPoints)

	j, err := s.Add(&Config{ID: "fixed", MediaID: m.ID, Points: []float64{1}})
	require.NoError(t, err)
	assert.Equal(t, "fixed", j.ID)
	_, err = s.Add(&Config{ID: "fixed", MediaID: m.ID, Points: []float64{1}})
	assert.ErrorIs(t, err, ErrJobExists)
}

func TestListAndDelete(t *testing.T) {
	s, _, m := newStore(t, "")

	a, err := s.Add(&Config{MediaID: m.ID, Points: []float64{1}})
	require.NoError(t, err)
	b, err := s.Add(&Config{MediaID: m.ID, Points: []float64{2}})
	require.NoError(t, err)

	assert.Len(t, s.List(nil, ""), 2)
	assert.Len(t, s.List(nil, m.ID), 2)
	assert.Empty(t, s.List(nil, "other"))

	only := s.List([]string{b.ID}, "")
	require.Len(t, only, 1)
	assert.Equal(t, b.ID, only[0].ID)

	require.NoError(t, s.Delete(a.ID))
	_, err = s.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(a.ID), ErrNotFound)

	// output directory is kept
	_, err = os.Stat(a.Dir)
	assert.NoError(t, err)
}

func TestStopRunningJob(t *testing.T) {
	s, _, m := newStore(t, "exec sleep 30")

	j, err := s.Add(&Config{MediaID: m.ID, Points: []float64{1}, Autostart: true})
	require.NoError(t, err)
	assert.True(t, j.IsRunning())

	require.NoError(t, s.Stop(j.ID))
	assert.False(t, j.IsRunning())
	assert.Equal(t, "killed", j.Status().State)

	assert.ErrorIs(t, s.Start("nope"), ErrNotFound)
	assert.ErrorIs(t, s.Stop("nope"), ErrNotFound)
	assert.ErrorIs(t, s.Restart("nope"), ErrNotFound)
}

func TestRestart(t *testing.T) {
	s, _, m := newStore(t, "exit 0")

	j, err := s.Add(&Config{MediaID: m.ID, Points: []float64{1}, Autostart: true})
	require.NoError(t, err)
	wait(t, j)

	require.NoError(t, s.Restart(j.ID))
	wait(t, j)
	assert.Equal(t, uint64(2), j.Status().States.Finished)
}

func TestAddRejectsUnsafeID(t *testing.T) {
	ff := ffmpegtest.New(map[string]ffmpeg.MediaInfo{"/videos/a.mp4": {Duration: 60}})
	lib := media.NewLibrary(media.Config{FFmpeg: ff})
	m, err := lib.Register(context.Background(), "a", "/videos/a.mp4")
	require.NoError(t, err)

	root := t.TempDir()
	s := NewStore(StoreConfig{FFmpeg: ff, Library: lib, OutputDir: filepath.Join(root, "out")})

	for _, id := range []string{"../escape", "../../escape", "a/b", `a\b`, "..", ".", "/abs", "with space", strings.Repeat("a", 65)} {
		_, err := s.Add(&Config{ID: id, MediaID: m.ID, Points: []float64{1}})
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, ff.Commands())

	j, err := s.Add(&Config{ID: "clip_01-a", MediaID: m.ID, Points: []float64{1}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out", "clip_01-a"), j.Dir)
}

func TestUpdatedAtWhileRestarting(t *testing.T) {
	s, _, m := newStore(t, "exit 0")

	j, err := s.Add(&Config{MediaID: m.ID, Points: []float64{1}})
	require.NoError(t, err)
	created := j.UpdatedAt()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 3; i++ {
			assert.NoError(t, s.Restart(j.ID))
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			assert.NoError(t, j.proc.Wait(ctx))
			cancel()
		}
	}()
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, j.UpdatedAt(), created)
	}
	wg.Wait()
}
