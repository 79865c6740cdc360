// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package ffmpeg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrAddressEmpty      = errors.New("address is empty")
	ErrAddressBlocked    = errors.New("address is blocked")
	ErrAddressNotAllowed = errors.New("address is not allowed")
)

// Validator decides whether a media address may be handed to ffmpeg
type Validator interface {
	Check(address string) error
}

type validator struct {
	allow []*regexp.Regexp
	block []*regexp.Regexp
}

// NewValidator creates a new Validator. Empty expressions are ignored.
// With no allow expressions every address that isn't blocked passes.
func NewValidator(allow, block []string) (Validator, error) {
	v := &validator{}

	var err error
	if v.allow, err = compileAll("allow", allow); err != nil {
		return nil, err
	}
	if v.block, err = compileAll("block", block); err != nil {
		return nil, err
	}
	return v, nil
}

func compileAll(kind string, exps []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, exp := range exps {
		exp = strings.TrimSpace(exp)
		if exp == "" {
			continue
		}
		re, err := regexp.Compile(exp)
		if err != nil {
			return nil, fmt.Errorf("invalid %s expression '%s': %w", kind, exp, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func (v *validator) Check(address string) error {
	if strings.TrimSpace(address) == "" {
		return ErrAddressEmpty
	}
	for _, e := range v.block {
		if e.MatchString(address) {
			return fmt.Errorf("%w: matches %s", ErrAddressBlocked, e)
		}
	}
	if len(v.allow) == 0 {
		return nil
	}
	for _, e := range v.allow {
		if e.MatchString(address) {
			return nil
		}
	}
	return ErrAddressNotAllowed
}
