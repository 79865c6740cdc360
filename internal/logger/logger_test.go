// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(Config{Component: "framegrab", Output: &buf})

	l.Debug("hidden %d", 1)
	l.Info("media %s registered", "abc")
	l.Error("probe failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="media abc registered"`)
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "component=framegrab")
}

func TestLoggerDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(Config{Debug: true, Output: &buf})
	l.Debug("request %s", "GET")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.NotContains(t, buf.String(), "component=")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(Config{Component: "framegrab", Output: &buf}).With("job")
	l.Info("started")
	assert.Contains(t, buf.String(), "component=framegrab.job")
}
