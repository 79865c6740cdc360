// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package timepoint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  List
	}{
		{name: "single number", input: "30", want: List{30}},
		{name: "comma list", input: "10,25,45", want: List{10, 25, 45}},
		{name: "range", input: "10-20", want: List{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}},
		{name: "surrounding whitespace", input: "  7.5 ", want: List{7.5}},
		{name: "list with spaces", input: " 1 , 2.5 ,3 ", want: List{1, 2.5, 3}},
		{name: "list keeps order and duplicates", input: "9,3,9", want: List{9, 3, 9}},
		{name: "range with fractional ends", input: "1.5-3.2", want: List{1, 2, 3, 4}},
		{name: "degenerate range", input: "4-4", want: List{4}},
		{name: "range with spaces", input: "2 - 4", want: List{2, 3, 4}},
		{name: "negative single number", input: "-5", want: List{-5}},
		{name: "exponent", input: "1e2", want: List{100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "range and comma", input: "10-20,5"},
		{name: "letters", input: "abc"},
		{name: "empty", input: ""},
		{name: "blank", input: "   "},
		{name: "reversed range", input: "5-2"},
		{name: "one bad segment", input: "1,x,3"},
		{name: "trailing comma", input: "1,2,"},
		{name: "open range", input: "10-"},
		{name: "trailing garbage", input: "10s"},
		{name: "nan", input: "NaN"},
		{name: "inf", input: "Inf"},
		{name: "hex float", input: "0x1p4"},
		{name: "huge range", input: "0-1e300"},
		{name: "range over a day", input: "0-1e10"},
		{name: "range past exact floats", input: "9007199254740990-9007199254740994"},
		{name: "range one past max span", input: "0-86401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			assert.Nil(t, got)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "want ParseError, got %v", err)
			assert.Equal(t, tt.input, perr.Input)
		})
	}
}

func TestParseRangeLength(t *testing.T) {
	got, err := Parse("0-599")
	require.NoError(t, err)
	assert.Len(t, got, 600)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 599.0, got[len(got)-1])
}

func TestParseRangeMaxSpan(t *testing.T) {
	got, err := Parse("100-86500")
	require.NoError(t, err)
	assert.Len(t, got, MaxRangeSpan+1)
	assert.Equal(t, 86500.0, got[len(got)-1])
}

func TestParseIsIdempotent(t *testing.T) {
	for _, in := range []string{"30", "10,25,45", "10-20", "abc"} {
		a, errA := Parse(in)
		b, errB := Parse(in)
		assert.Equal(t, a, b, in)
		assert.Equal(t, errA, errB, in)
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Parse("1,x")
	require.Error(t, err)
	assert.Equal(t, `invalid time expression "1,x": "x" is not a number`, err.Error())

	_, err = Parse("")
	require.Error(t, err)
	assert.Equal(t, `invalid time expression ""`, err.Error())
}
