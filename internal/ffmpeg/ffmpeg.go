// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/ZSC714725/framegrab/internal/ffmpeg/parse"
	"github.com/ZSC714725/framegrab/internal/ffmpeg/skills"
	"github.com/ZSC714725/framegrab/internal/logger"
	"github.com/ZSC714725/framegrab/internal/process"
)

// FFmpeg manages the ffmpeg and ffprobe binaries
type FFmpeg interface {
	// New creates an extraction process
	New(config ProcessConfig) (process.Process, error)
	NewParser() parse.Parser
	ValidateInput(address string) error
	Probe(ctx context.Context, address string) (MediaInfo, error)
	Frame(ctx context.Context, req FrameRequest) ([]byte, error)
	Skills() skills.Skills
	ReloadSkills(ctx context.Context) error
}

// ProcessConfig for creating an extraction process
type ProcessConfig struct {
	StaleTimeout  time.Duration
	Command       []string
	Parser        process.Parser
	Logger        logger.Logger
	OnExit        func(state string)
	OnStart       func()
	OnStateChange func(from, to string)
}

// Config for FFmpeg
type Config struct {
	Binary         string
	ProbeBinary    string
	MaxLogLines    int
	ValidatorInput Validator
}

type ffmpeg struct {
	binary      string
	probe       string
	validatorIn Validator
	logLines    int
	skills      skills.Skills
	skillsLock  sync.RWMutex
}

// New looks up the binaries. Skills are detected separately with
// ReloadSkills since that runs ffmpeg several times.
func New(config Config) (FFmpeg, error) {
	binary, err := exec.LookPath(config.Binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg binary: %w", err)
	}
	probeBinary, err := exec.LookPath(config.ProbeBinary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffprobe binary: %w", err)
	}

	f := &ffmpeg{
		binary:      binary,
		probe:       probeBinary,
		logLines:    config.MaxLogLines,
		validatorIn: config.ValidatorInput,
	}

	if f.logLines <= 0 {
		f.logLines = 100
	}
	if f.validatorIn == nil {
		f.validatorIn, _ = NewValidator(nil, nil)
	}

	return f, nil
}

func (f *ffmpeg) New(config ProcessConfig) (process.Process, error) {
	return process.New(process.Config{
		Binary:        f.binary,
		Args:          config.Command,
		StaleTimeout:  config.StaleTimeout,
		Parser:        config.Parser,
		Logger:        config.Logger,
		OnStart:       config.OnStart,
		OnExit:        config.OnExit,
		OnStateChange: config.OnStateChange,
	})
}

func (f *ffmpeg) NewParser() parse.Parser {
	return parse.New(parse.Config{LogLines: f.logLines})
}

func (f *ffmpeg) ValidateInput(address string) error {
	return f.validatorIn.Check(address)
}

func (f *ffmpeg) Probe(ctx context.Context, address string) (MediaInfo, error) {
	if err := f.validatorIn.Check(address); err != nil {
		return MediaInfo{}, err
	}
	return probe(ctx, f.probe, address)
}

func (f *ffmpeg) Frame(ctx context.Context, req FrameRequest) ([]byte, error) {
	if err := f.validatorIn.Check(req.Address); err != nil {
		return nil, err
	}
	return grabFrame(ctx, f.binary, req)
}

func (f *ffmpeg) Skills() skills.Skills {
	f.skillsLock.RLock()
	defer f.skillsLock.RUnlock()
	return f.skills
}

func (f *ffmpeg) ReloadSkills(ctx context.Context) error {
	s, err := skills.New(ctx, f.binary)
	if err != nil {
		return fmt.Errorf("reload skills: %w", err)
	}
	f.skillsLock.Lock()
	f.skills = s
	f.skillsLock.Unlock()
	return nil
}
