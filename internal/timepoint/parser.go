// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具
//
// Package timepoint turns user typed time expressions into time points.

package timepoint

import (
	"math"
	"strconv"
	"strings"
)

// List is an ordered list of time points in seconds
type List []float64

// MaxRangeSpan is the widest range "a-b" expands, one point per second of
// a day. Wider ranges are invalid.
const MaxRangeSpan = 86400

// maxExact is the largest integer float64 counts to without gaps
const maxExact = 1 << 53

// Parse converts a time expression into time points.
//
// Accepted shapes are a single number ("30"), a comma separated list
// ("10,25,45") and an inclusive integer range ("10-20"). A range is only
// considered when the input has no comma; "10-20,5" is parsed as a list and
// fails. A range whose ends don't parse, are reversed or span more than
// MaxRangeSpan seconds falls back to list parsing, which then fails on the
// '-' segment.
func Parse(input string) (List, error) {
	expr := strings.TrimSpace(input)

	if strings.Contains(expr, "-") && !strings.Contains(expr, ",") {
		if points, ok := parseRange(expr); ok {
			return points, nil
		}
	}

	var points List
	for _, seg := range strings.Split(expr, ",") {
		seg = strings.TrimSpace(seg)
		v, ok := parseNumber(seg)
		if !ok {
			return nil, &ParseError{Input: input, Segment: seg}
		}
		points = append(points, v)
	}

	if len(points) == 0 {
		return nil, &ParseError{Input: input}
	}
	return points, nil
}

func parseRange(expr string) (List, bool) {
	parts := strings.SplitN(expr, "-", 2)
	if len(parts) != 2 {
		return nil, false
	}
	start, ok := parseNumber(strings.TrimSpace(parts[0]))
	if !ok {
		return nil, false
	}
	end, ok := parseNumber(strings.TrimSpace(parts[1]))
	if !ok || start > end {
		return nil, false
	}

	lo, hi := math.Floor(start), math.Ceil(end)
	if hi > maxExact || hi-lo > MaxRangeSpan {
		return nil, false
	}

	first, n := int64(lo), int64(hi-lo)+1
	points := make(List, 0, n)
	for i := int64(0); i < n; i++ {
		points = append(points, float64(first+i))
	}
	return points, true
}

// parseNumber accepts plain decimal numbers only. Hex floats, NaN and Inf
// are rejected even though strconv understands them.
func parseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
