// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoVideo is returned when a probed file has no video stream
var ErrNoVideo = errors.New("no video stream")

// MediaInfo is what ffprobe tells about a media file
type MediaInfo struct {
	Format    string
	Duration  float64
	Width     int
	Height    int
	Codec     string
	FrameRate float64
}

type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		Duration     string `json:"duration"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

func probe(ctx context.Context, binary, address string) (MediaInfo, error) {
	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		address,
	)
	cmd.Env = []string{}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return MediaInfo{}, fmt.Errorf("ffprobe: %w", err)
		}
		return MediaInfo{}, fmt.Errorf("ffprobe: %w: %s", err, msg)
	}
	return parseProbe(out)
}

func parseProbe(data []byte) (MediaInfo, error) {
	var po probeOutput
	if err := json.Unmarshal(data, &po); err != nil {
		return MediaInfo{}, fmt.Errorf("ffprobe output: %w", err)
	}

	info := MediaInfo{Format: po.Format.FormatName}
	info.Duration, _ = strconv.ParseFloat(po.Format.Duration, 64)

	found := false
	for _, s := range po.Streams {
		if s.CodecType != "video" {
			continue
		}
		found = true
		info.Codec = s.CodecName
		info.Width = s.Width
		info.Height = s.Height
		info.FrameRate = parseRate(s.AvgFrameRate)
		if info.Duration <= 0 {
			info.Duration, _ = strconv.ParseFloat(s.Duration, 64)
		}
		break
	}
	if !found {
		return MediaInfo{}, ErrNoVideo
	}
	return info, nil
}

// parseRate parses ffprobe rationals like "30000/1001"
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
