// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package timepoint

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError is returned when a time expression can't be turned into time points
type ParseError struct {
	Input   string
	Segment string
}

func (e *ParseError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid time expression %q", e.Input)
	}
	return fmt.Sprintf("invalid time expression %q: %q is not a number", e.Input, e.Segment)
}

// RangeError lists every time point outside [Min, Max]
type RangeError struct {
	Min    float64
	Max    float64
	Values []float64
}

func (e *RangeError) Error() string {
	vals := make([]string, len(e.Values))
	for i, v := range e.Values {
		vals[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("time points out of range [%s, %s]: %s",
		strconv.FormatFloat(e.Min, 'f', -1, 64),
		strconv.FormatFloat(e.Max, 'f', -1, 64),
		strings.Join(vals, ", "))
}
