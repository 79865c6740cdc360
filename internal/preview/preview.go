// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具
//
// Package preview serves single frames of registered media.

package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZSC714725/framegrab/internal/ffmpeg"
	"github.com/ZSC714725/framegrab/internal/logger"
	"github.com/ZSC714725/framegrab/internal/media"
	"github.com/ZSC714725/framegrab/internal/timepoint"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// DefaultLimit is how many frames a batch returns at most
const DefaultLimit = 12

// ErrFrameNotFound is returned when there is no frame at the requested time
var ErrFrameNotFound = errors.New("frame not found")

// Frame is an encoded still image
type Frame struct {
	MediaID     string
	Time        float64
	ContentType string
	Data        []byte
}

// Entry is one element of a batch
type Entry struct {
	Time  float64
	Found bool
	Frame *Frame
	Err   error
}

// Service produces preview frames
type Service interface {
	Frame(ctx context.Context, mediaID string, t float64) (*Frame, error)
	Batch(ctx context.Context, mediaID string, points timepoint.List) ([]Entry, error)
	Limit() int
}

// Config for the preview service
type Config struct {
	FFmpeg  ffmpeg.FFmpeg
	Library media.Library
	Logger  logger.Logger
	// Limit caps a batch, defaults to DefaultLimit
	Limit int
	// Concurrency bounds simultaneous ffmpeg runs, defaults to 3
	Concurrency int64
	// Width of preview frames, 0 keeps the source size
	Width  int
	Format string
}

type service struct {
	ffmpeg  ffmpeg.FFmpeg
	library media.Library
	logger  logger.Logger
	limit   int
	width   int
	format  string

	sem   *semaphore.Weighted
	group singleflight.Group
}

// New creates a preview service
func New(config Config) Service {
	s := &service{
		ffmpeg:  config.FFmpeg,
		library: config.Library,
		logger:  config.Logger,
		limit:   config.Limit,
		width:   config.Width,
		format:  config.Format,
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if s.format == "" {
		s.format = "jpg"
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	s.sem = semaphore.NewWeighted(config.Concurrency)
	return s
}

func (s *service) Limit() int {
	return s.limit
}

func (s *service) Frame(ctx context.Context, mediaID string, t float64) (*Frame, error) {
	m, err := s.library.Get(mediaID)
	if err != nil {
		return nil, err
	}
	if err := timepoint.Validate(timepoint.List{t}, m.Duration); err != nil {
		return nil, err
	}

	key := mediaID + "@" + ffmpeg.FormatTime(t)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.grab(ctx, m, t)
	})
	if shared {
		s.logger.Debug("frame %s shared with a concurrent request", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Frame), nil
}

func (s *service) grab(ctx context.Context, m *media.Media, t float64) (*Frame, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	data, err := s.ffmpeg.Frame(ctx, ffmpeg.FrameRequest{
		Address: m.Address,
		Time:    t,
		Width:   s.width,
		Format:  s.format,
	})
	if err != nil {
		if errors.Is(err, ffmpeg.ErrNoFrame) {
			return nil, fmt.Errorf("%w: %s at %s", ErrFrameNotFound, m.ID, ffmpeg.FormatTime(t))
		}
		return nil, err
	}

	return &Frame{
		MediaID:     m.ID,
		Time:        t,
		ContentType: ffmpeg.ContentType(s.format),
		Data:        data,
	}, nil
}

// Batch fetches frames for the first Limit points, one after the other and
// in order. A failed frame is recorded in its entry; only an unknown media
// or a done context stops the batch.
func (s *service) Batch(ctx context.Context, mediaID string, points timepoint.List) ([]Entry, error) {
	if _, err := s.library.Get(mediaID); err != nil {
		return nil, err
	}

	if len(points) > s.limit {
		points = points[:s.limit]
	}

	entries := make([]Entry, 0, len(points))
	for _, t := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := s.Frame(ctx, mediaID, t)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Debug("preview %s at %v: %v", mediaID, t, err)
			entries = append(entries, Entry{Time: t, Err: err})
			continue
		}
		entries = append(entries, Entry{Time: t, Found: true, Frame: f})
	}
	return entries, nil
}
