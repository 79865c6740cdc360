// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package api

import (
	"github.com/ZSC714725/framegrab/internal/ffmpeg/skills"
)

// IDName is a capability entry
type IDName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SkillsCodec is a codec with its encoders and decoders
type SkillsCodec struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Encoders []string `json:"encoders"`
	Decoders []string `json:"decoders"`
}

// SkillsLibrary is a linked av library
type SkillsLibrary struct {
	Name     string `json:"name"`
	Compiled string `json:"compiled"`
	Linked   string `json:"linked"`
}

// SkillsResponse for API
type SkillsResponse struct {
	FFmpeg struct {
		Version       string          `json:"version"`
		Compiler      string          `json:"compiler"`
		Configuration string          `json:"configuration"`
		Libraries     []SkillsLibrary `json:"libraries"`
	} `json:"ffmpeg"`
	HWAccels     []string      `json:"hwaccels"`
	VideoCodecs  []SkillsCodec `json:"video_codecs"`
	ImageFormats []string      `json:"image_formats"`
	Demuxers     []IDName      `json:"demuxers"`
	Protocols    []string      `json:"protocols"`
}

func skillsToAPI(s skills.Skills) SkillsResponse {
	resp := SkillsResponse{
		HWAccels:     []string{},
		VideoCodecs:  make([]SkillsCodec, len(s.Codecs.Video)),
		ImageFormats: []string{},
		Demuxers:     make([]IDName, len(s.Demuxers)),
		Protocols:    s.Protocols,
	}

	resp.FFmpeg.Version = s.FFmpeg.Version
	resp.FFmpeg.Compiler = s.FFmpeg.Compiler
	resp.FFmpeg.Configuration = s.FFmpeg.Configuration
	resp.FFmpeg.Libraries = make([]SkillsLibrary, len(s.FFmpeg.Libraries))
	for i, lib := range s.FFmpeg.Libraries {
		resp.FFmpeg.Libraries[i] = SkillsLibrary{Name: lib.Name, Compiled: lib.Compiled, Linked: lib.Linked}
	}

	for _, h := range s.HWAccels {
		resp.HWAccels = append(resp.HWAccels, h.ID)
	}
	for i, c := range s.Codecs.Video {
		resp.VideoCodecs[i] = SkillsCodec{ID: c.ID, Name: c.Name, Encoders: c.Encoders, Decoders: c.Decoders}
	}
	for _, ext := range []string{"jpg", "png", "webp"} {
		if _, ok := s.ImageEncoder(ext); ok {
			resp.ImageFormats = append(resp.ImageFormats, ext)
		}
	}
	for i, f := range s.Demuxers {
		resp.Demuxers[i] = IDName{ID: f.ID, Name: f.Name}
	}
	if resp.Protocols == nil {
		resp.Protocols = []string{}
	}

	return resp
}
