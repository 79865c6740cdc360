// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package job

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZSC714725/framegrab/internal/ffmpeg"
)

// Config for an extraction job
type Config struct {
	ID        string    `json:"id"`
	MediaID   string    `json:"media_id"`
	Points    []float64 `json:"points"`
	Format    string    `json:"format"`
	Width     int       `json:"width"`
	Autostart bool      `json:"autostart"`
}

// Output is one image a job writes
type Output struct {
	Time float64 `json:"time_seconds"`
	Path string  `json:"path"`
}

// Outputs returns the file every point is written to, in point order
func (c *Config) Outputs(dir string) []Output {
	out := make([]Output, len(c.Points))
	for i, t := range c.Points {
		name := fmt.Sprintf("frame_%04d_%s.%s", i+1, timeLabel(t), c.Format)
		out[i] = Output{Time: t, Path: filepath.Join(dir, name)}
	}
	return out
}

// timeLabel renders seconds for a file name, "12.5" becomes "12s500"
func timeLabel(t float64) string {
	s := strconv.FormatFloat(t, 'f', 3, 64)
	return strings.Replace(s, ".", "s", 1)
}

// CreateCommand builds ffmpeg args that seek once per point and write one
// image per point in a single run
func (c *Config) CreateCommand(address, dir string) []string {
	cmd := []string{"-hide_banner", "-nostdin", "-y"}
	for _, t := range c.Points {
		cmd = append(cmd, "-ss", ffmpeg.FormatTime(t), "-i", address)
	}

	codec := []string{"-c:v", "mjpeg", "-q:v", "2"}
	switch c.Format {
	case "png":
		codec = []string{"-c:v", "png"}
	case "webp":
		codec = []string{"-c:v", "libwebp", "-quality", "90"}
	}

	for i, out := range c.Outputs(dir) {
		cmd = append(cmd, "-map", fmt.Sprintf("%d:v:0", i), "-frames:v", "1")
		if c.Width > 0 {
			cmd = append(cmd, "-vf", fmt.Sprintf("scale=%d:-2", c.Width))
		}
		cmd = append(cmd, codec...)
		cmd = append(cmd, "-update", "1", out.Path)
	}
	return cmd
}
