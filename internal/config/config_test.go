// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesAndFills(t *testing.T) {
	path := writeConfig(t, `
server:
  bind: ":9090"
  debug: true
ffmpeg:
  path: /usr/local/bin/ffmpeg
  input_block: ["^rtmp://"]
preview:
  limit: 6
jobs:
  format: png
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Bind)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, []string{"^rtmp://"}, cfg.FFmpeg.InputBlock)
	assert.Equal(t, 6, cfg.Preview.Limit)
	assert.Equal(t, "png", cfg.Jobs.Format)
	assert.Equal(t, "jpg", cfg.Preview.Format)

	// untouched keys keep their defaults
	assert.Equal(t, "ffprobe", cfg.FFmpeg.ProbePath)
	assert.Equal(t, int64(3), cfg.Preview.Concurrency)
	assert.Equal(t, "data/media", cfg.Media.Dir)
}

func TestLoadEmptyValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
server:
  bind: ""
preview:
  limit: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Bind)
	assert.Equal(t, 12, cfg.Preview.Limit)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, "jobs:\n  format: gif\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "jobs.format")
}

func TestLoadPreviewFormatIndependentOfJobs(t *testing.T) {
	path := writeConfig(t, "preview:\n  format: webp\njobs:\n  format: png\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "webp", cfg.Preview.Format)
	assert.Equal(t, "png", cfg.Jobs.Format)

	path = writeConfig(t, "preview:\n  format: bmp\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "preview.format")
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [")
	_, err := Load(path)
	assert.Error(t, err)
}
