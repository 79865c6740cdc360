// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package timepoint

// Validate checks that every point lies in [0, max]. All offending values
// are reported in one RangeError, in input order.
func Validate(points List, max float64) error {
	var bad []float64
	for _, p := range points {
		if p < 0 || p > max {
			bad = append(bad, p)
		}
	}
	if len(bad) > 0 {
		return &RangeError{Min: 0, Max: max, Values: bad}
	}
	return nil
}

// ParseAndValidate parses expr and checks the result against [0, max]
func ParseAndValidate(expr string, max float64) (List, error) {
	points, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	if err := Validate(points, max); err != nil {
		return nil, err
	}
	return points, nil
}
