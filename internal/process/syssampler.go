// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package process

import (
	"sync"

	gopsutilprocess "github.com/shirou/gopsutil/v3/process"
)

// sysSampler 使用 gopsutil 采集进程 CPU 和内存
type sysSampler struct {
	mu   sync.RWMutex
	proc *gopsutilprocess.Process
	peak uint64
}

// NewSysSampler creates a sampler backed by the OS process table
func NewSysSampler() Sampler {
	return &sysSampler{}
}

func (s *sysSampler) Start(pid int) error {
	proc, err := gopsutilprocess.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.proc = proc
	s.peak = 0
	s.mu.Unlock()
	return nil
}

func (s *sysSampler) Stop() {
	s.mu.Lock()
	s.proc = nil
	s.mu.Unlock()
}

// Current returns CPU percent and RSS. Once the process is gone it keeps
// reporting the peak RSS seen while it ran.
func (s *sysSampler) Current() (cpu float64, memory uint64) {
	s.mu.RLock()
	proc := s.proc
	peak := s.peak
	s.mu.RUnlock()
	if proc == nil {
		return 0, peak
	}
	if pct, err := proc.CPUPercent(); err == nil {
		cpu = pct
	}
	if info, err := proc.MemoryInfo(); err == nil && info != nil {
		memory = info.RSS
	}
	s.mu.Lock()
	if memory > s.peak {
		s.peak = memory
	}
	s.mu.Unlock()
	return cpu, memory
}
