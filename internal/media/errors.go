// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package media

import "errors"

var (
	ErrNotFound       = errors.New("media not found")
	ErrInvalidAddress = errors.New("invalid media address")
	ErrProbe          = errors.New("can't probe media")
	ErrTooLarge       = errors.New("upload too large")
)
