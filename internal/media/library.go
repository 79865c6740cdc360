// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具
//
// Package media keeps the in-memory list of videos frames can be taken from.

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/framegrab/internal/ffmpeg"
	"github.com/ZSC714725/framegrab/internal/logger"

	"github.com/lithammer/shortuuid/v4"
)

// Media is a registered video
type Media struct {
	ID        string
	Name      string
	Address   string
	Duration  float64
	Width     int
	Height    int
	Codec     string
	FrameRate float64
	CreatedAt int64

	// owned is set for uploads; their file is removed with the media
	owned bool
}

// Uploaded reports whether the file was uploaded through the library
func (m *Media) Uploaded() bool {
	return m.owned
}

// Library manages media in memory
type Library interface {
	Register(ctx context.Context, name, address string) (*Media, error)
	Upload(ctx context.Context, name string, r io.Reader) (*Media, error)
	Get(id string) (*Media, error)
	List() []*Media
	Delete(id string) error
}

// Config for a Library
type Config struct {
	FFmpeg ffmpeg.FFmpeg
	Logger logger.Logger
	// Dir receives uploaded files
	Dir string
	// MaxUploadSize in bytes, 0 means unlimited
	MaxUploadSize int64
}

type library struct {
	ffmpeg  ffmpeg.FFmpeg
	logger  logger.Logger
	dir     string
	maxSize int64

	media map[string]*Media
	mu    sync.RWMutex
}

// NewLibrary creates a media library
func NewLibrary(config Config) Library {
	l := &library{
		ffmpeg:  config.FFmpeg,
		logger:  config.Logger,
		dir:     config.Dir,
		maxSize: config.MaxUploadSize,
		media:   make(map[string]*Media),
	}
	if l.logger == nil {
		l.logger = logger.Nop()
	}
	return l
}

func (l *library) Register(ctx context.Context, name, address string) (*Media, error) {
	return l.register(ctx, shortuuid.New(), name, address, false)
}

func (l *library) register(ctx context.Context, id, name, address string, owned bool) (*Media, error) {
	if err := l.ffmpeg.ValidateInput(address); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	info, err := l.ffmpeg.Probe(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProbe, err)
	}

	if name == "" {
		name = filepath.Base(address)
	}

	m := &Media{
		ID:        id,
		Name:      name,
		Address:   address,
		Duration:  info.Duration,
		Width:     info.Width,
		Height:    info.Height,
		Codec:     info.Codec,
		FrameRate: info.FrameRate,
		CreatedAt: time.Now().Unix(),
		owned:     owned,
	}

	l.mu.Lock()
	l.media[m.ID] = m
	l.mu.Unlock()

	l.logger.Info("media %s registered: %s (%.3fs %dx%d)", m.ID, m.Name, m.Duration, m.Width, m.Height)
	return m, nil
}

func (l *library) Upload(ctx context.Context, name string, r io.Reader) (*Media, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, err
	}

	id := shortuuid.New()
	path := filepath.Join(l.dir, id+uploadExt(name))

	if err := l.save(path, r); err != nil {
		os.Remove(path)
		return nil, err
	}

	m, err := l.register(ctx, id, name, path, true)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return m, nil
}

func (l *library) save(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	src := r
	if l.maxSize > 0 {
		src = io.LimitReader(r, l.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		return err
	}
	if l.maxSize > 0 && n > l.maxSize {
		return ErrTooLarge
	}
	return f.Sync()
}

// uploadExt keeps a short, sane extension from the client's file name so
// ffmpeg can use it as a format hint
func uploadExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func (l *library) Get(id string) (*Media, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.media[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

// List returns media oldest first
func (l *library) List() []*Media {
	l.mu.RLock()
	out := make([]*Media, 0, len(l.media))
	for _, m := range l.media {
		out = append(out, m)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (l *library) Delete(id string) error {
	l.mu.Lock()
	m, ok := l.media[id]
	if ok {
		delete(l.media, id)
	}
	l.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if m.owned {
		if err := os.Remove(m.Address); err != nil && !errors.Is(err, os.ErrNotExist) {
			l.logger.Error("remove %s: %v", m.Address, err)
		}
	}
	l.logger.Info("media %s deleted", id)
	return nil
}
