// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgressLine(t *testing.T) {
	p := New(Config{LogLines: 10})

	n := p.Parse("frame=   12 fps=0.0 q=-0.0 Lsize=N/A time=00:01:02.50 bitrate=N/A dup=1 drop=2 speed=3.25x")
	assert.Equal(t, uint64(12), n)

	prog := p.Progress()
	assert.Equal(t, uint64(12), prog.Frame)
	assert.InDelta(t, 62.5, prog.Time, 1e-9)
	assert.InDelta(t, 3.25, prog.Speed, 1e-9)
	assert.Equal(t, uint64(1), prog.Dup)
	assert.Equal(t, uint64(2), prog.Drop)
	assert.Equal(t, uint64(0), prog.Size)
}

func TestParseProgressKeyValue(t *testing.T) {
	p := New(Config{})
	p.Parse("frame=3 total_size=4096 out_time_ms=1500000 drop_frames=0 dup_frames=4")

	prog := p.Progress()
	assert.Equal(t, uint64(3), prog.Frame)
	assert.Equal(t, uint64(4096), prog.Size)
	assert.InDelta(t, 1.5, prog.Time, 1e-9)
	assert.Equal(t, uint64(4), prog.Dup)
}

func TestParseSizeInKB(t *testing.T) {
	p := New(Config{})
	p.Parse("frame=    1 fps=0.0 q=2.0 size=      12kB time=00:00:00.04 speed=0.1x")
	assert.Equal(t, uint64(12*1024), p.Progress().Size)
}

func TestParseOutputsAndErrors(t *testing.T) {
	p := New(Config{})

	assert.Equal(t, uint64(0), p.Parse("Output #0, image2, to 'frame_0001.jpg':"))
	p.Parse("Output #1, image2, to 'frame_0002.jpg':")
	p.Parse("  Stream #0:0: Video: mjpeg")
	p.Parse("/videos/missing.mp4: No such file or directory")

	prog := p.Progress()
	assert.Equal(t, 2, prog.Outputs)
	assert.Equal(t, "/videos/missing.mp4: No such file or directory", prog.LastError)
}

func TestLogRing(t *testing.T) {
	p := New(Config{LogLines: 2})
	p.Parse("one")
	p.Parse("two")
	p.Parse("three")

	lines := p.Log()
	require.Len(t, lines, 2)
	assert.Equal(t, "two", lines[0].Data)
	assert.Equal(t, "three", lines[1].Data)

	p.ResetLog()
	assert.Empty(t, p.Log())
}

func TestResetStats(t *testing.T) {
	p := New(Config{})
	p.Parse("frame=5")
	p.ResetStats()
	assert.Equal(t, Progress{}, p.Progress())
}
