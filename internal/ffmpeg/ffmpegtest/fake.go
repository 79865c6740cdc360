// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

// Package ffmpegtest provides an in-memory ffmpeg.FFmpeg for tests.
package ffmpegtest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ZSC714725/framegrab/internal/ffmpeg"
	"github.com/ZSC714725/framegrab/internal/ffmpeg/parse"
	"github.com/ZSC714725/framegrab/internal/ffmpeg/skills"
	"github.com/ZSC714725/framegrab/internal/process"
)

// Fake answers probes from a map and returns canned frames. Extraction
// processes run Script through sh instead of ffmpeg.
type Fake struct {
	// Media maps an address to its probe result
	Media map[string]ffmpeg.MediaInfo
	// FrameFunc produces frame bytes; nil returns "frame@<time>"
	FrameFunc func(ctx context.Context, req ffmpeg.FrameRequest) ([]byte, error)
	// Script is run by sh -c for every extraction process
	Script    string
	Validator ffmpeg.Validator
	SkillSet  skills.Skills

	frames   atomic.Int64
	mu       sync.Mutex
	commands [][]string
}

var _ ffmpeg.FFmpeg = (*Fake)(nil)

// New returns a Fake that knows the given media
func New(media map[string]ffmpeg.MediaInfo) *Fake {
	if media == nil {
		media = map[string]ffmpeg.MediaInfo{}
	}
	return &Fake{Media: media, Script: "exit 0"}
}

func (f *Fake) New(config ffmpeg.ProcessConfig) (process.Process, error) {
	f.mu.Lock()
	f.commands = append(f.commands, config.Command)
	f.mu.Unlock()

	return process.New(process.Config{
		Binary:        "sh",
		Args:          []string{"-c", f.Script},
		StaleTimeout:  config.StaleTimeout,
		Parser:        config.Parser,
		Sampler:       process.NewNullSampler(),
		Logger:        config.Logger,
		OnStart:       config.OnStart,
		OnExit:        config.OnExit,
		OnStateChange: config.OnStateChange,
	})
}

func (f *Fake) NewParser() parse.Parser {
	return parse.New(parse.Config{LogLines: 20})
}

func (f *Fake) ValidateInput(address string) error {
	if f.Validator != nil {
		return f.Validator.Check(address)
	}
	if address == "" {
		return ffmpeg.ErrAddressEmpty
	}
	return nil
}

func (f *Fake) Probe(ctx context.Context, address string) (ffmpeg.MediaInfo, error) {
	if err := f.ValidateInput(address); err != nil {
		return ffmpeg.MediaInfo{}, err
	}
	info, ok := f.Media[address]
	if !ok {
		return ffmpeg.MediaInfo{}, ffmpeg.ErrNoVideo
	}
	return info, nil
}

func (f *Fake) Frame(ctx context.Context, req ffmpeg.FrameRequest) ([]byte, error) {
	f.frames.Add(1)
	if f.FrameFunc != nil {
		return f.FrameFunc(ctx, req)
	}
	return []byte("frame@" + ffmpeg.FormatTime(req.Time)), nil
}

func (f *Fake) Skills() skills.Skills {
	return f.SkillSet
}

func (f *Fake) ReloadSkills(ctx context.Context) error {
	return nil
}

// FrameCalls returns how many times Frame ran
func (f *Fake) FrameCalls() int64 {
	return f.frames.Load()
}

// Commands returns the argument lists of every created process
func (f *Fake) Commands() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.commands))
	copy(out, f.commands)
	return out
}
