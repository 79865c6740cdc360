// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator([]string{`^/videos/`, ""}, []string{`\.\.`})
	require.NoError(t, err)

	assert.NoError(t, v.Check("/videos/a.mp4"))
	assert.ErrorIs(t, v.Check("/videos/../etc/passwd"), ErrAddressBlocked)
	assert.ErrorIs(t, v.Check("/tmp/a.mp4"), ErrAddressNotAllowed)
	assert.ErrorIs(t, v.Check("  "), ErrAddressEmpty)
}

func TestValidatorAllowsEverythingByDefault(t *testing.T) {
	v, err := NewValidator(nil, nil)
	require.NoError(t, err)
	assert.NoError(t, v.Check("https://example.com/v.mp4"))
}

func TestValidatorBadExpression(t *testing.T) {
	_, err := NewValidator([]string{"("}, nil)
	assert.ErrorContains(t, err, "invalid allow expression")
}
