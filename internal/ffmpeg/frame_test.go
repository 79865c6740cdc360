// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameArgs(t *testing.T) {
	args := FrameArgs(FrameRequest{Address: "/videos/a.mp4", Time: 12.5, Width: 320})
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", "12.500",
		"-i", "/videos/a.mp4",
		"-frames:v", "1",
		"-an", "-sn",
		"-vf", "scale=320:-2",
		"-c:v", "mjpeg", "-q:v", "3",
		"-f", "image2pipe", "pipe:1",
	}, args)
}

func TestFrameArgsPNG(t *testing.T) {
	args := FrameArgs(FrameRequest{Address: "a.mp4", Time: 0, Format: "png"})
	assert.Contains(t, args, "png")
	assert.NotContains(t, args, "-vf")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("jpg"))
	assert.Equal(t, "image/png", ContentType("png"))
	assert.Equal(t, "image/webp", ContentType("webp"))
}
