// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoFrame is returned when ffmpeg decodes nothing at the requested time
var ErrNoFrame = errors.New("no frame at time")

// FrameRequest describes a single still grab
type FrameRequest struct {
	Address string
	Time    float64
	// Width scales the frame keeping aspect ratio, 0 keeps the source size
	Width int
	// Format is jpg, png or webp
	Format string
}

// FrameArgs returns the ffmpeg arguments that write one frame to stdout
func FrameArgs(req FrameRequest) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", FormatTime(req.Time),
		"-i", req.Address,
		"-frames:v", "1",
		"-an", "-sn",
	}
	if req.Width > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", req.Width))
	}
	switch req.Format {
	case "png":
		args = append(args, "-c:v", "png")
	case "webp":
		args = append(args, "-c:v", "libwebp")
	default:
		args = append(args, "-c:v", "mjpeg", "-q:v", "3")
	}
	return append(args, "-f", "image2pipe", "pipe:1")
}

// ContentType returns the MIME type for an image format
func ContentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// FormatTime formats seconds the way ffmpeg's -ss expects, with millisecond
// precision
func FormatTime(t float64) string {
	return strconv.FormatFloat(t, 'f', 3, 64)
}

func grabFrame(ctx context.Context, binary string, req FrameRequest) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, FrameArgs(req)...)
	cmd.Env = []string{}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	// seeking past the last frame exits 0 with nothing written
	if stdout.Len() == 0 {
		return nil, ErrNoFrame
	}
	return stdout.Bytes(), nil
}
