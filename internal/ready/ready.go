// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具
//
// Package ready provides a one-shot readiness signal. Components that need
// startup work to be finished wait on it instead of re-checking on a timer.

package ready

import (
	"context"
	"sync"
)

// Signal is set once and stays set
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// New creates an unset Signal
func New() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Set marks the signal as ready. Calling it again is a no-op.
func (s *Signal) Set() {
	s.once.Do(func() { close(s.ch) })
}

// Done is closed once the signal is set
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

// IsSet reports whether Set has been called
func (s *Signal) IsSet() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the signal is set or ctx is done
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
