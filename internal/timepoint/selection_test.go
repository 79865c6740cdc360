// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package timepoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionAdd(t *testing.T) {
	s := NewSelection(30, 10)
	next := s.Add(20, 10, 5)

	assert.Equal(t, List{10, 30}, s.Points())
	assert.Equal(t, List{5, 10, 20, 30}, next.Points())
	assert.Equal(t, 4, next.Len())
}

func TestSelectionRemove(t *testing.T) {
	s := NewSelection(1, 2, 3)
	next := s.Remove(2)

	assert.Equal(t, List{1, 2, 3}, s.Points())
	assert.Equal(t, List{1, 3}, next.Points())
	assert.Equal(t, List{1, 3}, next.Remove(42).Points())
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection(1, 2)
	assert.Equal(t, 0, s.Clear().Len())
	assert.Equal(t, 2, s.Len())
}

func TestSelectionPointsIsCopy(t *testing.T) {
	s := NewSelection(1, 2)
	p := s.Points()
	p[0] = 99
	assert.Equal(t, List{1, 2}, s.Points())
}

func TestSelectionZeroValue(t *testing.T) {
	var s Selection
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, List{}, s.Points())
	assert.Equal(t, List{4}, s.Add(4).Points())
}
