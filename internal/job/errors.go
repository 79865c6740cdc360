// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package job

import "errors"

var (
	ErrNotFound          = errors.New("job not found")
	ErrJobExists         = errors.New("job already exists")
	ErrInvalidID         = errors.New("invalid job id")
	ErrNoPoints          = errors.New("invalid config: need at least one time point")
	ErrTooManyPoints     = errors.New("invalid config: too many time points")
	ErrUnknownMedia      = errors.New("unknown media")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
