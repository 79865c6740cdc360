// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package process

// Sampler reports resource usage of a running process
type Sampler interface {
	Start(pid int) error
	Stop()
	Current() (cpu float64, memory uint64)
}

type nullSampler struct{}

// NewNullSampler returns a sampler that always reports zero
func NewNullSampler() Sampler {
	return nullSampler{}
}

func (nullSampler) Start(pid int) error        { return nil }
func (nullSampler) Stop()                      {}
func (nullSampler) Current() (float64, uint64) { return 0, 0 }
