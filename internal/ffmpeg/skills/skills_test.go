// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionOutput = `ffmpeg version 6.1 Copyright (c) 2000-2023 the FFmpeg developers
  built with gcc 13 (Debian 13.2.0-5)
  configuration: --prefix=/usr --enable-libwebp
  libavutil      58. 29.100 / 58. 29.100
  libavcodec     60. 31.102 / 60. 31.102
`

const codecsOutput = `Codecs:
 D..... = Decoding supported
 -------
 DEV.LS h264                 H.264 / AVC / MPEG-4 AVC (decoders: h264 h264_v4l2m2m) (encoders: libx264)
 DEVIL. mjpeg                Motion JPEG
 DEVI.S png                  PNG (Portable Network Graphics) image
 DEVILS webp                 WebP (encoders: libwebp_anim libwebp)
 DEAIL. mp3                  MP3 (MPEG audio layer 3) (decoders: mp3float mp3) (encoders: libmp3lame)
`

const demuxersOutput = `File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
 D  matroska,webm    Matroska / WebM
 D  mov,mp4,m4a,3gp,3g2,mj2 QuickTime / MOV
`

const protocolsOutput = `Supported file protocols:
Input:
  file
  http
Output:
  file
  rtmp
`

const hwaccelsOutput = `Hardware acceleration methods:
vaapi
cuda
`

func TestParseVersion(t *testing.T) {
	v := parseVersion([]byte(versionOutput))
	assert.Equal(t, "6.1.0", v.Version)
	assert.Equal(t, "gcc 13 (Debian 13.2.0-5)", v.Compiler)
	assert.Equal(t, "--prefix=/usr --enable-libwebp", v.Configuration)
	require.Len(t, v.Libraries, 2)
	assert.Equal(t, "libavcodec", v.Libraries[1].Name)
}

func TestParseCodecs(t *testing.T) {
	video, image := parseCodecs([]byte(codecsOutput))
	require.Len(t, video, 4)
	assert.Equal(t, []string{"h264", "h264_v4l2m2m"}, video[0].Decoders)
	assert.Equal(t, []string{"libx264"}, video[0].Encoders)

	ids := make([]string, len(image))
	for i, c := range image {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"mjpeg", "png", "webp"}, ids)
}

func TestImageEncoder(t *testing.T) {
	var s Skills
	s.Codecs.Video, s.Codecs.Image = parseCodecs([]byte(codecsOutput))

	enc, ok := s.ImageEncoder("jpg")
	assert.True(t, ok)
	assert.Equal(t, "mjpeg", enc)

	enc, ok = s.ImageEncoder("webp")
	assert.True(t, ok)
	assert.Equal(t, "libwebp_anim", enc)

	_, ok = s.ImageEncoder("gif")
	assert.False(t, ok)
}

func TestParseDemuxers(t *testing.T) {
	s := Skills{Demuxers: parseDemuxers([]byte(demuxersOutput))}
	assert.True(t, s.CanDemux("webm"))
	assert.True(t, s.CanDemux("mp4"))
	assert.False(t, s.CanDemux("avi"))
}

func TestParseProtocols(t *testing.T) {
	assert.Equal(t, []string{"file", "http"}, parseProtocols([]byte(protocolsOutput)))
}

func TestParseHWAccels(t *testing.T) {
	accels := parseHWAccels([]byte(hwaccelsOutput))
	assert.Equal(t, []HWAccel{{ID: "vaapi"}, {ID: "cuda"}}, accels)
}
