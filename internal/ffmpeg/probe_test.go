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

func TestParseProbe(t *testing.T) {
	out := `{
  "streams": [
    {"codec_type": "audio", "codec_name": "aac"},
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
     "avg_frame_rate": "30000/1001", "duration": "59.9"}
  ],
  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "60.024000"}
}`
	info, err := parseProbe([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "h264", info.Codec)
	assert.Equal(t, 1920, info.Width)
	assert.Equal(t, 1080, info.Height)
	assert.InDelta(t, 60.024, info.Duration, 1e-9)
	assert.InDelta(t, 29.97, info.FrameRate, 0.01)
}

func TestParseProbeStreamDuration(t *testing.T) {
	out := `{"streams":[{"codec_type":"video","duration":"12.5","avg_frame_rate":"25"}],"format":{"duration":"N/A"}}`
	info, err := parseProbe([]byte(out))
	require.NoError(t, err)
	assert.InDelta(t, 12.5, info.Duration, 1e-9)
	assert.InDelta(t, 25, info.FrameRate, 1e-9)
}

func TestParseProbeNoVideo(t *testing.T) {
	_, err := parseProbe([]byte(`{"streams":[{"codec_type":"audio"}],"format":{}}`))
	assert.ErrorIs(t, err, ErrNoVideo)

	_, err = parseProbe([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseRate(t *testing.T) {
	assert.Equal(t, 0.0, parseRate("0/0"))
	assert.Equal(t, 0.0, parseRate(""))
	assert.Equal(t, 24.0, parseRate("24/1"))
}
