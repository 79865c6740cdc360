// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package skills

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Codec represents a codec with encoders and decoders
type Codec struct {
	ID       string
	Name     string
	Encoders []string
	Decoders []string
}

// Format represents a supported container format
type Format struct {
	ID   string
	Name string
}

// HWAccel represents hardware acceleration
type HWAccel struct {
	ID string
}

// Library represents a linked av library
type Library struct {
	Name     string
	Compiled string
	Linked   string
}

// Version is the ffmpeg build information
type Version struct {
	Version       string
	Compiler      string
	Configuration string
	Libraries     []Library
}

// Skills are the detected capabilities of FFmpeg
type Skills struct {
	FFmpeg   Version
	HWAccels []HWAccel
	Codecs   struct {
		Video []Codec
		Image []Codec
	}
	Demuxers  []Format
	Protocols []string
}

// imageCodecs maps an output image extension to the codec ids that can
// write it, in order of preference
var imageCodecs = map[string][]string{
	"jpg":  {"mjpeg"},
	"png":  {"png"},
	"webp": {"webp"},
}

// ImageEncoder returns the encoder to use for writing images with the given
// extension
func (s Skills) ImageEncoder(ext string) (string, bool) {
	for _, id := range imageCodecs[ext] {
		for _, c := range s.Codecs.Image {
			if c.ID == id && len(c.Encoders) > 0 {
				return c.Encoders[0], true
			}
		}
	}
	return "", false
}

// CanDemux reports whether a demuxer with the given id exists
func (s Skills) CanDemux(id string) bool {
	for _, f := range s.Demuxers {
		if f.ID == id {
			return true
		}
	}
	return false
}

// New returns all skills that FFmpeg provides
func New(ctx context.Context, binary string) (Skills, error) {
	s := Skills{}

	out, err := run(ctx, binary, "-version")
	if err != nil {
		return Skills{}, fmt.Errorf("can't run ffmpeg: %w", err)
	}
	s.FFmpeg = parseVersion(out)
	if s.FFmpeg.Version == "" {
		return Skills{}, fmt.Errorf("can't parse ffmpeg version")
	}

	out, _ = run(ctx, binary, "-hwaccels")
	s.HWAccels = parseHWAccels(out)

	out, _ = run(ctx, binary, "-codecs")
	s.Codecs.Video, s.Codecs.Image = parseCodecs(out)

	out, _ = run(ctx, binary, "-demuxers")
	s.Demuxers = parseDemuxers(out)

	out, _ = run(ctx, binary, "-protocols")
	s.Protocols = parseProtocols(out)

	return s, nil
}

func run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, append([]string{"-hide_banner"}, args...)...)
	cmd.Env = []string{}
	return cmd.Output()
}

var (
	reVersion       = regexp.MustCompile(`(?m)^ffmpeg version ([0-9]+\.[0-9]+(\.[0-9]+)?)`)
	reCompiler      = regexp.MustCompile(`(?m)^\s*built with (.*)$`)
	reConfiguration = regexp.MustCompile(`(?m)^\s*configuration: (.*)$`)
	reLibrary       = regexp.MustCompile(`(?m)^\s*(lib(?:[a-z]+))\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+) /\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+)`)
	reCodec         = regexp.MustCompile(`^\s([D.])([E.])([VAS])([I.]).{2} ([0-9A-Za-z_]+)\s+(.*?)(?:\(decoders:([^\)]+)\))?\s?(?:\(encoders:([^\)]+)\))?$`)
	reDemuxer       = regexp.MustCompile(`^\s(D)\s?\s([0-9A-Za-z_,]+)\s+(.*?)$`)
	reHWAccel       = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func parseVersion(data []byte) Version {
	v := Version{}
	if m := reVersion.FindSubmatch(data); m != nil {
		v.Version = string(m[1])
		if len(m[2]) == 0 {
			v.Version += ".0"
		}
	}
	if m := reCompiler.FindSubmatch(data); m != nil {
		v.Compiler = string(m[1])
	}
	if m := reConfiguration.FindSubmatch(data); m != nil {
		v.Configuration = string(m[1])
	}
	for _, m := range reLibrary.FindAllSubmatch(data, -1) {
		v.Libraries = append(v.Libraries, Library{
			Name:     string(m[1]),
			Compiled: string(m[2]),
			Linked:   string(m[3]),
		})
	}
	return v
}

// parseCodecs returns video codecs and, separately, the intra-only video
// codecs usable for still images
func parseCodecs(data []byte) (video, image []Codec) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := reCodec.FindStringSubmatch(scanner.Text())
		if m == nil || m[3] != "V" {
			continue
		}
		c := Codec{ID: m[5], Name: strings.TrimSpace(m[6])}
		if m[1] == "D" {
			c.Decoders = splitList(m[7], m[5])
		}
		if m[2] == "E" {
			c.Encoders = splitList(m[8], m[5])
		}
		video = append(video, c)
		if m[4] == "I" {
			image = append(image, c)
		}
	}
	return video, image
}

func splitList(list, fallback string) []string {
	list = strings.TrimSpace(list)
	if list == "" {
		return []string{fallback}
	}
	return strings.Fields(list)
}

func parseDemuxers(data []byte) []Format {
	var formats []Format
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := reDemuxer.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		for _, id := range strings.Split(m[2], ",") {
			formats = append(formats, Format{ID: id, Name: m[3]})
		}
	}
	return formats
}

func parseProtocols(data []byte) []string {
	var protocols []string
	input := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "Input:":
			input = true
			continue
		case "Output:":
			input = false
			continue
		}
		if input && line != "" {
			protocols = append(protocols, line)
		}
	}
	return protocols
}

func parseHWAccels(data []byte) []HWAccel {
	var accels []HWAccel
	start := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "Hardware acceleration methods:" {
			start = true
			continue
		}
		if !start || !reHWAccel.MatchString(line) {
			continue
		}
		accels = append(accels, HWAccel{ID: line})
	}
	return accels
}
