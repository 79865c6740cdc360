// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package parse

import (
	"container/ring"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/framegrab/internal/process"
)

// Progress holds extraction progress parsed from ffmpeg stderr
type Progress struct {
	Frame     uint64  `json:"frame"`
	Size      uint64  `json:"size_bytes"`
	Time      float64 `json:"time_seconds"`
	Speed     float64 `json:"speed"`
	Drop      uint64  `json:"drop"`
	Dup       uint64  `json:"dup"`
	Quantizer float64 `json:"q"`
	Outputs   int     `json:"outputs"`
	LastError string  `json:"last_error,omitempty"`
}

// Parser implements process.Parser and keeps the latest progress
type Parser interface {
	process.Parser
	Progress() Progress
}

// Config for the parser
type Config struct {
	LogLines int
}

var (
	reFrame     = regexp.MustCompile(`frame=\s*([0-9]+)`)
	reQuantizer = regexp.MustCompile(`q=\s*(-?[0-9\.]+)`)
	reSizeKB    = regexp.MustCompile(`(?:L?size)=\s*([0-9]+)(?:kB|KiB)`)
	reTotalSize = regexp.MustCompile(`total_size=\s*([0-9]+)`)
	reTime      = regexp.MustCompile(`time=\s*([0-9]+):([0-9]{2}):([0-9]{2})\.([0-9]+)`)
	reTimeUs    = regexp.MustCompile(`out_time_(?:ms|us)=\s*([0-9]+)`)
	reSpeed     = regexp.MustCompile(`speed=\s*([0-9\.]+)x`)
	reDrop      = regexp.MustCompile(`drop(?:_frames)?=\s*([0-9]+)`)
	reDup       = regexp.MustCompile(`dup(?:_frames)?=\s*([0-9]+)`)
	reOutput    = regexp.MustCompile(`^Output #[0-9]+,`)
	reError     = regexp.MustCompile(`(?i)(error|invalid|no such file|not found|could not)`)
)

type parser struct {
	log      *ring.Ring
	logLines int

	progress Progress
	lock     sync.RWMutex
}

// New creates a Parser
func New(config Config) Parser {
	p := &parser{logLines: config.LogLines}
	if p.logLines <= 0 {
		p.logLines = 100
	}
	p.log = ring.New(p.logLines)
	return p
}

func (p *parser) Parse(line string) uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()

	// progress 行也计入日志，便于查看 frame/speed 等信息
	p.log.Value = process.Line{Timestamp: time.Now(), Data: line}
	p.log = p.log.Next()

	if reOutput.MatchString(line) {
		p.progress.Outputs++
		return 0
	}

	if !strings.Contains(line, "frame=") {
		if reError.MatchString(line) {
			p.progress.LastError = line
		}
		return 0
	}

	if x, ok := matchUint(reFrame, line); ok {
		p.progress.Frame = x
	}
	if x, ok := matchFloat(reQuantizer, line); ok {
		p.progress.Quantizer = x
	}
	if x, ok := matchUint(reSizeKB, line); ok {
		p.progress.Size = x * 1024
	}
	if x, ok := matchUint(reTotalSize, line); ok {
		p.progress.Size = x
	}
	if m := reTime.FindStringSubmatch(line); m != nil {
		p.progress.Time = clockSeconds(m[1], m[2], m[3], m[4])
	}
	if x, ok := matchUint(reTimeUs, line); ok {
		// out_time_ms 实为微秒
		p.progress.Time = float64(x) / 1e6
	}
	if x, ok := matchFloat(reSpeed, line); ok {
		p.progress.Speed = x
	}
	if x, ok := matchUint(reDrop, line); ok {
		p.progress.Drop = x
	}
	if x, ok := matchUint(reDup, line); ok {
		p.progress.Dup = x
	}

	return p.progress.Frame
}

func matchUint(re *regexp.Regexp, line string) (uint64, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	x, err := strconv.ParseUint(m[1], 10, 64)
	return x, err == nil
}

func matchFloat(re *regexp.Regexp, line string) (float64, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	x, err := strconv.ParseFloat(m[1], 64)
	return x, err == nil
}

// clockSeconds converts hh, mm, ss and a fraction of any length to seconds
func clockSeconds(hh, mm, ss, frac string) float64 {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.Atoi(ss)
	f, _ := strconv.ParseFloat("0."+frac, 64)
	return float64(h*3600+m*60+s) + f
}

func (p *parser) ResetStats() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.progress = Progress{}
}

func (p *parser) ResetLog() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.log = ring.New(p.logLines)
}

func (p *parser) Log() []process.Line {
	var out []process.Line
	p.lock.RLock()
	p.log.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(process.Line))
		}
	})
	p.lock.RUnlock()
	return out
}

func (p *parser) Progress() Progress {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.progress
}
