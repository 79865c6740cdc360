// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package timepoint

import "sort"

// Selection is the set of time points a user has marked. It is a value owned
// by the caller; every operation returns a new Selection and leaves the
// receiver untouched.
type Selection struct {
	points List
}

// NewSelection builds a Selection from points, sorted and without duplicates
func NewSelection(points ...float64) Selection {
	return Selection{}.Add(points...)
}

// Add returns a selection that also contains points
func (s Selection) Add(points ...float64) Selection {
	out := make(List, 0, len(s.points)+len(points))
	out = append(out, s.points...)
	out = append(out, points...)
	sort.Float64s(out)

	// 去重
	n := 0
	for i, p := range out {
		if i > 0 && p == out[n-1] {
			continue
		}
		out[n] = p
		n++
	}
	return Selection{points: out[:n]}
}

// Remove returns a selection without point. Unknown points are ignored.
func (s Selection) Remove(point float64) Selection {
	out := make(List, 0, len(s.points))
	removed := false
	for _, p := range s.points {
		if !removed && p == point {
			removed = true
			continue
		}
		out = append(out, p)
	}
	return Selection{points: out}
}

// Clear returns an empty selection
func (s Selection) Clear() Selection {
	return Selection{}
}

// Points returns a copy of the selected points in ascending order
func (s Selection) Points() List {
	out := make(List, len(s.points))
	copy(out, s.points)
	return out
}

// Len returns the number of selected points
func (s Selection) Len() int {
	return len(s.points)
}
