// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Media   MediaConfig   `yaml:"media"`
	Preview PreviewConfig `yaml:"preview"`
	Jobs    JobsConfig    `yaml:"jobs"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Bind   string `yaml:"bind"`
	WebDir string `yaml:"web_dir"`
	Debug  bool   `yaml:"debug"`
	// ReadyTimeout is how long API calls wait for startup to finish, in seconds
	ReadyTimeout int `yaml:"ready_timeout_seconds"`
}

// FFmpegConfig FFmpeg 配置
type FFmpegConfig struct {
	Path        string   `yaml:"path"`
	ProbePath   string   `yaml:"ffprobe_path"`
	MaxLogLines int      `yaml:"max_log_lines"`
	InputAllow  []string `yaml:"input_allow"`
	InputBlock  []string `yaml:"input_block"`
}

// MediaConfig 媒体库配置
type MediaConfig struct {
	Dir           string `yaml:"dir"`
	MaxUploadSize int64  `yaml:"max_upload_mbytes"`
}

// PreviewConfig 预览配置
type PreviewConfig struct {
	Limit       int     `yaml:"limit"`
	Concurrency int64   `yaml:"concurrency"`
	Width       int     `yaml:"width"`
	Format      string  `yaml:"format"`
	RateLimit   float64 `yaml:"rate_per_second"`
	RateBurst   int     `yaml:"rate_burst"`
}

// JobsConfig 抽帧任务配置
type JobsConfig struct {
	OutputDir    string `yaml:"output_dir"`
	Format       string `yaml:"format"`
	StaleTimeout uint64 `yaml:"stale_timeout_seconds"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Bind: ":8080", WebDir: "web", ReadyTimeout: 10},
		FFmpeg: FFmpegConfig{Path: "ffmpeg", ProbePath: "ffprobe", MaxLogLines: 100},
		Media:  MediaConfig{Dir: "data/media", MaxUploadSize: 2048},
		Preview: PreviewConfig{
			Limit:       12,
			Concurrency: 3,
			Width:       320,
			Format:      "jpg",
			RateLimit:   10,
			RateBurst:   20,
		},
		Jobs: JobsConfig{OutputDir: "data/frames", Format: "jpg", StaleTimeout: 30},
	}
}

// Load 从 YAML 文件加载配置
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.fill()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// 填充空值
func (c *Config) fill() {
	d := Default()
	if c.Server.Bind == "" {
		c.Server.Bind = d.Server.Bind
	}
	if c.Server.ReadyTimeout <= 0 {
		c.Server.ReadyTimeout = d.Server.ReadyTimeout
	}
	if c.FFmpeg.Path == "" {
		c.FFmpeg.Path = d.FFmpeg.Path
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = d.FFmpeg.ProbePath
	}
	if c.FFmpeg.MaxLogLines <= 0 {
		c.FFmpeg.MaxLogLines = d.FFmpeg.MaxLogLines
	}
	if c.Media.Dir == "" {
		c.Media.Dir = d.Media.Dir
	}
	if c.Media.MaxUploadSize <= 0 {
		c.Media.MaxUploadSize = d.Media.MaxUploadSize
	}
	if c.Preview.Limit <= 0 {
		c.Preview.Limit = d.Preview.Limit
	}
	if c.Preview.Concurrency <= 0 {
		c.Preview.Concurrency = d.Preview.Concurrency
	}
	if c.Preview.Width < 0 {
		c.Preview.Width = 0
	}
	if c.Preview.Format == "" {
		c.Preview.Format = d.Preview.Format
	}
	if c.Preview.RateLimit <= 0 {
		c.Preview.RateLimit = d.Preview.RateLimit
	}
	if c.Preview.RateBurst <= 0 {
		c.Preview.RateBurst = d.Preview.RateBurst
	}
	if c.Jobs.OutputDir == "" {
		c.Jobs.OutputDir = d.Jobs.OutputDir
	}
	if c.Jobs.Format == "" {
		c.Jobs.Format = d.Jobs.Format
	}
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	if err := checkFormat("preview.format", c.Preview.Format); err != nil {
		return err
	}
	return checkFormat("jobs.format", c.Jobs.Format)
}

func checkFormat(key, format string) error {
	switch format {
	case "jpg", "png", "webp":
		return nil
	}
	return fmt.Errorf("%s must be jpg, png or webp, got %q", key, format)
}
