// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package job

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZSC714725/framegrab/internal/ffmpeg"
	"github.com/ZSC714725/framegrab/internal/ffmpeg/parse"
	"github.com/ZSC714725/framegrab/internal/logger"
	"github.com/ZSC714725/framegrab/internal/media"
	"github.com/ZSC714725/framegrab/internal/process"
	"github.com/ZSC714725/framegrab/internal/timepoint"

	"github.com/lithammer/shortuuid/v4"
)

// DefaultMaxPoints caps the number of ffmpeg inputs of one job
const DefaultMaxPoints = 500

// Job extracts frames of one media at a list of time points
type Job struct {
	ID        string
	MediaID   string
	Address   string
	Config    *Config
	Dir       string
	CreatedAt int64

	updatedAt atomic.Int64
	proc      process.Process
	parser    parse.Parser
}

// UpdatedAt is the unix time of the last start or restart
func (j *Job) UpdatedAt() int64 {
	return j.updatedAt.Load()
}

// validID keeps client chosen IDs to a single path element
var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Status returns process status
func (j *Job) Status() process.Status {
	return j.proc.Status()
}

// Progress returns parsed ffmpeg progress
func (j *Job) Progress() parse.Progress {
	return j.parser.Progress()
}

// Log returns ffmpeg log lines
func (j *Job) Log() []process.Line {
	return j.parser.Log()
}

// Outputs lists the images the job writes
func (j *Job) Outputs() []Output {
	return j.Config.Outputs(j.Dir)
}

// IsRunning returns whether ffmpeg is running
func (j *Job) IsRunning() bool {
	return j.proc.IsRunning()
}

// Store manages jobs in memory
type Store interface {
	Add(config *Config) (*Job, error)
	Get(id string) (*Job, error)
	List(ids []string, mediaID string) []*Job
	Delete(id string) error
	Start(id string) error
	Stop(id string) error
	Restart(id string) error
}

// StoreConfig for a job store
type StoreConfig struct {
	FFmpeg        ffmpeg.FFmpeg
	Library       media.Library
	Logger        logger.Logger
	OutputDir     string
	DefaultFormat string
	StaleTimeout  time.Duration
	MaxPoints     int
}

type store struct {
	ffmpeg        ffmpeg.FFmpeg
	library       media.Library
	logger        logger.Logger
	outputDir     string
	defaultFormat string
	staleTimeout  time.Duration
	maxPoints     int

	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewStore creates a job store
func NewStore(config StoreConfig) Store {
	s := &store{
		ffmpeg:        config.FFmpeg,
		library:       config.Library,
		logger:        config.Logger,
		outputDir:     config.OutputDir,
		defaultFormat: config.DefaultFormat,
		staleTimeout:  config.StaleTimeout,
		maxPoints:     config.MaxPoints,
		jobs:          make(map[string]*Job),
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.defaultFormat == "" {
		s.defaultFormat = "jpg"
	}
	if s.maxPoints <= 0 {
		s.maxPoints = DefaultMaxPoints
	}
	return s
}

func (s *store) checkFormat(format string) error {
	switch format {
	case "jpg", "png", "webp":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	// skills 未加载时跳过编码器检查
	sk := s.ffmpeg.Skills()
	if len(sk.Codecs.Image) == 0 {
		return nil
	}
	if _, ok := sk.ImageEncoder(format); !ok {
		return fmt.Errorf("%w: ffmpeg has no %s encoder", ErrUnsupportedFormat, format)
	}
	return nil
}

func (s *store) Add(config *Config) (*Job, error) {
	if len(config.Points) == 0 {
		return nil, ErrNoPoints
	}
	if len(config.Points) > s.maxPoints {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPoints, len(config.Points), s.maxPoints)
	}
	if config.Format == "" {
		config.Format = s.defaultFormat
	}
	if err := s.checkFormat(config.Format); err != nil {
		return nil, err
	}

	m, err := s.library.Get(config.MediaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMedia, config.MediaID)
	}
	if err := timepoint.Validate(config.Points, m.Duration); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(config.ID) == 0 {
		config.ID = shortuuid.New()
	} else if !validID.MatchString(config.ID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, config.ID)
	}
	if _, exists := s.jobs[config.ID]; exists {
		return nil, ErrJobExists
	}

	dir := filepath.Join(s.outputDir, config.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	j := &Job{
		ID:        config.ID,
		MediaID:   m.ID,
		Address:   m.Address,
		Config:    config,
		Dir:       dir,
		CreatedAt: now,
	}
	j.updatedAt.Store(now)

	id := config.ID
	log := s.logger.With("job")
	j.parser = s.ffmpeg.NewParser()

	proc, err := s.ffmpeg.New(ffmpeg.ProcessConfig{
		StaleTimeout: s.staleTimeout,
		Command:      config.CreateCommand(j.Address, dir),
		Parser:       j.parser,
		Logger:       log,
		OnStateChange: func(from, to string) {
			log.Info("job %s state %s -> %s", id, from, to)
		},
		OnExit: func(state string) {
			log.Info("job %s exited: %s, %d frame(s) in %s", id, state, len(config.Points), dir)
		},
	})
	if err != nil {
		return nil, err
	}
	j.proc = proc

	s.jobs[id] = j

	if config.Autostart {
		if err := proc.Start(); err != nil {
			log.Error("job %s autostart: %v", id, err)
		}
	}

	return j, nil
}

func (s *store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j, nil
}

// List returns jobs oldest first, optionally filtered by ids and media
func (s *store) List(ids []string, mediaID string) []*Job {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.RLock()
	var out []*Job
	for _, j := range s.jobs {
		if len(mediaID) > 0 && j.MediaID != mediaID {
			continue
		}
		if len(want) > 0 && !want[j.ID] {
			continue
		}
		out = append(out, j)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt != out[b].CreatedAt {
			return out[a].CreatedAt < out[b].CreatedAt
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// Delete stops the job and forgets it. Extracted images stay on disk.
func (s *store) Delete(id string) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return j.proc.Stop(true)
}

func (s *store) Start(id string) error {
	j, err := s.Get(id)
	if err != nil {
		return err
	}
	j.updatedAt.Store(time.Now().Unix())
	return j.proc.Start()
}

func (s *store) Stop(id string) error {
	j, err := s.Get(id)
	if err != nil {
		return err
	}
	return j.proc.Stop(true)
}

func (s *store) Restart(id string) error {
	j, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := j.proc.Stop(true); err != nil {
		return err
	}
	j.updatedAt.Store(time.Now().Unix())
	return j.proc.Start()
}
